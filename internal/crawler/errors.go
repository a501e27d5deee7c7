package crawler

import "errors"

// Construction errors. They are returned by NewParallelCrawler and
// NewSequentialCrawler before any crawl can start.
var (
	// ErrNilParser is returned when no PageParser is given.
	ErrNilParser = errors.New("page parser must not be nil")

	// ErrNegativeDepth is returned when the maximum depth is negative.
	ErrNegativeDepth = errors.New("invalid max depth: must be non-negative")

	// ErrNegativeTimeout is returned when the crawl timeout is negative.
	// A zero timeout is valid and produces an empty crawl.
	ErrNegativeTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrNegativePopularWordCount is returned when the popular word count is negative.
	ErrNegativePopularWordCount = errors.New("invalid popular word count: must be non-negative")

	// ErrInvalidParallelism is returned when the parallelism is not positive.
	ErrInvalidParallelism = errors.New("invalid parallelism: must be positive")

	// ErrInvalidIgnorePattern is returned when an ignore pattern is not a
	// valid regular expression. The compile error is joined to it.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
)
