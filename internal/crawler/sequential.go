package crawler

import "context"

// SequentialCrawler crawls pages one at a time, depth first, on the
// calling goroutine. It applies the same task rules as ParallelCrawler
// and therefore produces the same Result for the same link graph, as
// long as the deadline does not expire.
type SequentialCrawler struct {
	parser PageParser
	*settings
}

var _ Crawler = (*SequentialCrawler)(nil)

// NewSequentialCrawler returns a SequentialCrawler that fetches pages with parser.
// WithParallelism is accepted but has no effect.
func NewSequentialCrawler(parser PageParser, opts ...Option) (*SequentialCrawler, error) {
	if parser == nil {
		return nil, ErrNilParser
	}

	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	return &SequentialCrawler{
		parser:   parser,
		settings: s,
	}, nil
}

// Crawl explores the pages reachable from startingURLs in order.
func (c *SequentialCrawler) Crawl(ctx context.Context, startingURLs []string) (*Result, error) {
	run := newCrawlRun(c.settings, c.parser)

	c.logger.Info("starting sequential crawl",
		"seeds", len(startingURLs),
		"maxDepth", c.maxDepth,
		"deadline", run.deadline,
	)

	for _, pageURL := range startingURLs {
		c.crawlTask(ctx, run, pageURL, c.maxDepth)
	}

	result := run.result(c.popularWordCount)

	c.logger.Info("sequential crawl complete",
		"urlsVisited", result.URLsVisited,
		"deadlineReached", run.expired(),
	)

	return result, ctx.Err()
}

func (c *SequentialCrawler) crawlTask(ctx context.Context, run *crawlRun, pageURL string, depth int) {
	links, ok := run.visit(ctx, pageURL, depth)
	if !ok || depth <= 1 {
		return
	}
	for _, link := range links {
		c.crawlTask(ctx, run, link, depth-1)
	}
}

// MaxParallelism always returns 1.
func (c *SequentialCrawler) MaxParallelism() int {
	return 1
}
