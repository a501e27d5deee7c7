package crawler

import (
	"context"
	"log/slog"
	"time"
)

// crawlRun is the state shared by every task of one crawl.
// It is created by Crawl and dropped when Crawl returns.
type crawlRun struct {
	parser   PageParser
	clock    Clock
	ignore   *IgnoreFilter
	logger   *slog.Logger
	deadline time.Time
	visited  *VisitedSet
	words    *WordAccumulator
}

func newCrawlRun(s *settings, parser PageParser) *crawlRun {
	return &crawlRun{
		parser:   parser,
		clock:    s.clock,
		ignore:   s.ignore,
		logger:   s.logger,
		deadline: s.clock.Now().Add(s.timeout),
		visited:  NewVisitedSet(),
		words:    NewWordAccumulator(),
	}
}

// visit runs the steps of a crawl task up to and including the merge of
// word counts. It returns the links to fan out to, and false when the
// task stopped early or the fetch failed.
func (r *crawlRun) visit(ctx context.Context, pageURL string, depth int) ([]string, bool) {
	if !r.clock.Now().Before(r.deadline) {
		return nil, false
	}
	if ctx.Err() != nil {
		return nil, false
	}

	if depth <= 0 {
		return nil, false
	}

	if r.ignore.Match(pageURL) {
		r.logger.Debug("skipping ignored url", "url", pageURL)
		return nil, false
	}

	if !r.visited.Claim(pageURL) {
		return nil, false
	}

	r.logger.Debug("fetching page", "url", pageURL, "depth", depth)

	page, err := r.parser.Parse(ctx, pageURL)
	if err != nil {
		r.logger.Warn("failed to parse page",
			"url", pageURL,
			"error", err,
		)
		return nil, false
	}
	if page == nil {
		return nil, true
	}

	r.words.Merge(page.WordCounts)

	return page.Links, true
}

// worthVisiting reports whether a task for pageURL could still fetch it.
// It only filters; the task's own claim in visit decides.
func (r *crawlRun) worthVisiting(ctx context.Context, pageURL string) bool {
	return ctx.Err() == nil &&
		!r.expired() &&
		!r.ignore.Match(pageURL) &&
		!r.visited.Contains(pageURL)
}

// result builds the Result from the shared state.
func (r *crawlRun) result(popularWordCount int) *Result {
	return &Result{
		WordCounts:  TopWords(r.words.Snapshot(), popularWordCount),
		URLsVisited: r.visited.Len(),
	}
}

// expired reports whether the deadline has passed.
func (r *crawlRun) expired() bool {
	return !r.clock.Now().Before(r.deadline)
}
