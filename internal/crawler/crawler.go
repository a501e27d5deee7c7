package crawler

import (
	"context"
	"time"
)

// PageParser fetches a page and extracts its words and outbound links.
// Implementations must be safe for concurrent use.
type PageParser interface {
	// Parse fetches and parses the page at pageURL.
	Parse(ctx context.Context, pageURL string) (*PageResult, error)
}

// PageResult is the outcome of parsing one page.
type PageResult struct {
	// WordCounts maps each word found on the page to its number of occurrences.
	WordCounts map[string]int

	// Links are the outbound links found on the page, already resolved to
	// absolute URLs.
	Links []string
}

// Crawler explores the link graph reachable from a set of starting URLs.
type Crawler interface {
	// Crawl explores the pages reachable from startingURLs and returns
	// the aggregated statistics.
	Crawl(ctx context.Context, startingURLs []string) (*Result, error)

	// MaxParallelism returns the largest parallelism the crawler can use.
	MaxParallelism() int
}

// WordCount is a single entry of the popular word list.
type WordCount struct {
	// Word is the word as produced by the PageParser.
	Word string

	// Count is the number of occurrences across all visited pages.
	Count int
}

// Result is the outcome of one crawl.
type Result struct {
	// WordCounts holds the most popular words, ordered by popularity.
	// See TopWords for the ordering rule.
	WordCounts []WordCount

	// URLsVisited is the number of distinct URLs that were claimed for
	// exploration, including those whose fetch failed.
	URLsVisited int
}

// Clock is the time source used to compute and check crawl deadlines.
type Clock interface {
	Now() time.Time
}

// SystemClock is a Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
