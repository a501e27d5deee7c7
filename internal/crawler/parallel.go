package crawler

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ParallelCrawler crawls pages concurrently.
//
// Every crawl task runs on its own goroutine, but at most the configured
// parallelism of them fetch pages at any time, and a task keeps at most
// that many children alive while it fans out. A crawler holds no state between calls to
// Crawl and may be used by several goroutines at once; each call gets its
// own visited set, word accumulator and worker slots.
type ParallelCrawler struct {
	parser PageParser
	*settings
}

var _ Crawler = (*ParallelCrawler)(nil)

// NewParallelCrawler returns a ParallelCrawler that fetches pages with parser.
// The options are validated here; an invalid option fails construction.
func NewParallelCrawler(parser PageParser, opts ...Option) (*ParallelCrawler, error) {
	if parser == nil {
		return nil, ErrNilParser
	}

	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	return &ParallelCrawler{
		parser:   parser,
		settings: s,
	}, nil
}

// Crawl explores the pages reachable from startingURLs and blocks until
// every task of the crawl has returned.
//
// The returned Result is always non-nil. The error is non-nil only if ctx
// was cancelled, in which case the Result covers the pages visited so far.
func (c *ParallelCrawler) Crawl(ctx context.Context, startingURLs []string) (*Result, error) {
	run := newCrawlRun(c.settings, c.parser)
	slots := semaphore.NewWeighted(int64(c.parallelism))

	c.logger.Info("starting parallel crawl",
		"seeds", len(startingURLs),
		"maxDepth", c.maxDepth,
		"parallelism", c.parallelism,
		"deadline", run.deadline,
	)

	var g errgroup.Group
	g.SetLimit(c.parallelism)
	for _, pageURL := range startingURLs {
		g.Go(func() error {
			c.crawlTask(ctx, run, slots, pageURL, c.maxDepth)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // crawl tasks never return errors

	result := run.result(c.popularWordCount)

	c.logger.Info("parallel crawl complete",
		"urlsVisited", result.URLsVisited,
		"deadlineReached", run.expired(),
	)

	return result, ctx.Err()
}

// crawlTask explores pageURL and then waits for the subtree of every link
// found on it.
func (c *ParallelCrawler) crawlTask(ctx context.Context, run *crawlRun, slots *semaphore.Weighted, pageURL string, depth int) {
	if err := slots.Acquire(ctx, 1); err != nil {
		return
	}
	links, ok := run.visit(ctx, pageURL, depth)
	slots.Release(1)

	// Children at depth 0 would stop at the depth check without fetching.
	if !ok || depth <= 1 || len(links) == 0 {
		return
	}

	// Links that cannot lead anywhere get no goroutine, and at most
	// parallelism children of this task exist at a time.
	var g errgroup.Group
	g.SetLimit(c.parallelism)
	seen := make(map[string]struct{}, len(links))
	for _, link := range links {
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		if !run.worthVisiting(ctx, link) {
			continue
		}
		g.Go(func() error {
			c.crawlTask(ctx, run, slots, link, depth-1)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // crawl tasks never return errors
}

// MaxParallelism returns the number of logical CPUs usable by the process.
func (c *ParallelCrawler) MaxParallelism() int {
	return runtime.NumCPU()
}
