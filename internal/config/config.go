package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/wordcrawler/internal/crawler"
	"github.com/nao1215/wordcrawler/internal/parser"
	"github.com/nao1215/wordcrawler/internal/report"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wordcrawler"

	// ImplementationParallel selects crawler.ParallelCrawler.
	ImplementationParallel = "parallel"

	// ImplementationSequential selects crawler.SequentialCrawler.
	ImplementationSequential = "sequential"

	// DefaultReportFormat is the format of the crawl result.
	DefaultReportFormat = report.FormatJSON
)

// Config holds all configuration options for a crawl.
// It is populated from defaults, the crawl file, the environment and CLI
// flags, and passed through the application rather than kept as global state.
type Config struct {
	// StartPages are the seed URLs.
	StartPages []string

	// IgnoredURLs are regular expressions; a URL matching one in full is
	// never fetched.
	IgnoredURLs []string

	// IgnoredWords are regular expressions; a word matching one in full is
	// not counted.
	IgnoredWords []string

	// Parallelism is the number of pages fetched at once.
	// Zero means the crawler's maximum (the number of CPUs).
	Parallelism int

	// ImplementationOverride selects the crawler: "parallel" (default) or
	// "sequential".
	ImplementationOverride string

	// MaxDepth is the depth budget of every seed.
	MaxDepth int

	// Timeout is the overall crawl time budget.
	Timeout time.Duration

	// PopularWordCount is the number of words in the result.
	PopularWordCount int

	// ProfileOutputPath receives the profiling data. Empty means stdout.
	ProfileOutputPath string

	// ResultPath receives the crawl result. Empty means stdout.
	ResultPath string

	// TeeResult also prints the result to stdout when ResultPath is set.
	TeeResult bool

	// ReportFormat is the result format: json, markdown or text.
	ReportFormat report.Format

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONLogs switches the log output to JSON.
	JSONLogs bool

	// DBDir is the directory of the run history database.
	// Defaults to XDG data directory (~/.local/share/wordcrawler on Linux).
	DBDir string

	// SaveToDB stores the finished run in the history database.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// RequestTimeout bounds a single page fetch.
	RequestTimeout time.Duration

	// RequestInterval is the minimum delay between two HTTP requests.
	// Zero disables rate limiting.
	RequestInterval time.Duration

	// ConfigFilePath is the path of the crawl file that was loaded, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		ImplementationOverride: ImplementationParallel,
		MaxDepth:               crawler.DefaultMaxDepth,
		Timeout:                crawler.DefaultTimeout,
		PopularWordCount:       crawler.DefaultPopularWordCount,
		ReportFormat:           DefaultReportFormat,
		DBDir:                  XDGDataDir(),
		SaveToDB:               true,
		UserAgent:              parser.DefaultUserAgent,
		MaxBodySize:            parser.DefaultMaxBodySize,
		RequestTimeout:         parser.DefaultRequestTimeout,
	}
}

// XDGDataDir returns the XDG data directory for wordcrawler.
// On Linux: ~/.local/share/wordcrawler
// On macOS: ~/Library/Application Support/wordcrawler
// On Windows: %LOCALAPPDATA%\wordcrawler
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wordcrawler.
// On Linux: ~/.config/wordcrawler
// On macOS: ~/Library/Application Support/wordcrawler
// On Windows: %APPDATA%\wordcrawler
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.StartPages) == 0 {
		return ErrNoStartPages
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.PopularWordCount < 0 {
		return ErrInvalidPopularWordCount
	}
	if c.Parallelism < 0 {
		return ErrInvalidParallelism
	}
	if _, err := ParseImplementation(c.ImplementationOverride); err != nil {
		return err
	}
	if _, err := report.ParseFormat(string(c.ReportFormat)); err != nil {
		return err
	}
	if c.RequestInterval < 0 {
		return ErrInvalidRequestInterval
	}
	if c.RequestTimeout < 0 {
		return ErrInvalidRequestTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}

// EffectiveParallelism returns the parallelism to crawl with on a crawler
// whose maximum is maxParallelism: the configured value, capped to the
// maximum, or the maximum itself when unset.
func (c *Config) EffectiveParallelism(maxParallelism int) int {
	if c.Parallelism <= 0 || c.Parallelism > maxParallelism {
		return maxParallelism
	}
	return c.Parallelism
}

// ParseImplementation normalizes a crawler implementation name. The empty
// string selects the parallel crawler. Fully qualified class-style names
// such as "webcrawler.SequentialWebCrawler" are matched on their last
// element.
func ParseImplementation(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	switch {
	case name == "":
		return ImplementationParallel, nil
	case strings.HasPrefix(name, ImplementationParallel):
		return ImplementationParallel, nil
	case strings.HasPrefix(name, ImplementationSequential):
		return ImplementationSequential, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownImplementation, name)
	}
}
