package crawler

import (
	"log/slog"
	"runtime"
	"time"
)

// Default crawl limits used when the corresponding option is not given.
const (
	// DefaultTimeout bounds the wall-clock duration of a crawl.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxDepth is the number of hops a crawl may take from a seed,
	// counting the seed itself as the first one.
	DefaultMaxDepth = 10

	// DefaultPopularWordCount is the number of words kept in a Result.
	DefaultPopularWordCount = 100
)

// settings holds the immutable configuration shared by both crawler
// implementations.
type settings struct {
	timeout          time.Duration
	maxDepth         int
	popularWordCount int
	parallelism      int
	ignoredURLs      []string
	ignore           *IgnoreFilter
	clock            Clock
	logger           *slog.Logger
}

// Option configures a crawler.
type Option func(*settings)

// WithTimeout sets the wall-clock budget of each crawl.
// The deadline is computed once, when Crawl is called.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.timeout = d
	}
}

// WithMaxDepth sets the maximum depth.
// A depth of 1 fetches the seeds only, 2 fetches the seeds and their links,
// and 0 fetches nothing.
func WithMaxDepth(depth int) Option {
	return func(s *settings) {
		s.maxDepth = depth
	}
}

// WithPopularWordCount sets how many words are kept in the Result.
func WithPopularWordCount(n int) Option {
	return func(s *settings) {
		s.popularWordCount = n
	}
}

// WithParallelism sets how many crawl tasks may fetch pages at the same time.
// It is ignored by SequentialCrawler.
func WithParallelism(n int) Option {
	return func(s *settings) {
		s.parallelism = n
	}
}

// WithIgnoredURLs sets the regular expressions of URLs that must not be
// crawled. A URL is ignored when a pattern matches it entirely.
func WithIgnoredURLs(patterns []string) Option {
	return func(s *settings) {
		s.ignoredURLs = patterns
	}
}

// WithClock sets the time source. It is intended for tests.
func WithClock(clock Clock) Option {
	return func(s *settings) {
		s.clock = clock
	}
}

// WithLogger sets the logger. slog.Default() is used when it is nil or not set.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// newSettings applies opts over the defaults and validates the outcome.
func newSettings(opts []Option) (*settings, error) {
	s := &settings{
		timeout:          DefaultTimeout,
		maxDepth:         DefaultMaxDepth,
		popularWordCount: DefaultPopularWordCount,
		parallelism:      runtime.NumCPU(),
		clock:            SystemClock{},
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}

	switch {
	case s.timeout < 0:
		return nil, ErrNegativeTimeout
	case s.maxDepth < 0:
		return nil, ErrNegativeDepth
	case s.popularWordCount < 0:
		return nil, ErrNegativePopularWordCount
	case s.parallelism <= 0:
		return nil, ErrInvalidParallelism
	}

	ignore, err := NewIgnoreFilter(s.ignoredURLs)
	if err != nil {
		return nil, err
	}
	s.ignore = ignore

	return s, nil
}
