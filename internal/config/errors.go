package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() for programmatic error handling.
var (
	// ErrNoStartPages is returned when there is no URL to start crawling from.
	ErrNoStartPages = errors.New("no start pages specified: provide URLs as arguments or startPages in the config file")

	// ErrInvalidTimeout is returned when the crawl timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxDepth is returned when the maximum depth is negative.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidPopularWordCount is returned when the popular word count is negative.
	ErrInvalidPopularWordCount = errors.New("invalid popular word count: must be non-negative")

	// ErrInvalidParallelism is returned when the parallelism is negative.
	// Zero selects the number of CPUs.
	ErrInvalidParallelism = errors.New("invalid parallelism: must be non-negative")

	// ErrUnknownImplementation is returned when implementationOverride names
	// no known crawler.
	ErrUnknownImplementation = errors.New("unknown crawler implementation: use parallel or sequential")

	// ErrInvalidRequestInterval is returned when the request interval is negative.
	ErrInvalidRequestInterval = errors.New("invalid request interval: must be non-negative")

	// ErrInvalidRequestTimeout is returned when the request timeout is negative.
	ErrInvalidRequestTimeout = errors.New("invalid request timeout: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// A negative body size is invalid; use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidEnv is returned when a WORDCRAWLER_* variable cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment variable")
)
