package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nao1215/wordcrawler/internal/report"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "WORDCRAWLER_"

// DefaultEnvFile is the dotenv file read when no other is given.
const DefaultEnvFile = ".env"

// Environment variable names, without EnvPrefix.
const (
	EnvStartPages        = "START_PAGES"
	EnvIgnoredURLs       = "IGNORED_URLS"
	EnvIgnoredWords      = "IGNORED_WORDS"
	EnvParallelism       = "PARALLELISM"
	EnvImplementation    = "IMPLEMENTATION"
	EnvMaxDepth          = "MAX_DEPTH"
	EnvTimeout           = "TIMEOUT"
	EnvPopularWordCount  = "POPULAR_WORD_COUNT"
	EnvProfileOutputPath = "PROFILE_OUTPUT_PATH"
	EnvResultPath        = "RESULT_PATH"
	EnvReportFormat      = "REPORT_FORMAT"
	EnvUserAgent         = "USER_AGENT"
	EnvRequestInterval   = "REQUEST_INTERVAL"
	EnvDBDir             = "DB_DIR"
)

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a LookupFunc over the process environment, falling back
// to the variables of the dotenv file at path. A missing dotenv file is not
// an error. The process environment is never modified.
func EnvLookup(path string) (LookupFunc, error) {
	if path == "" {
		path = DefaultEnvFile
	}

	dotenv, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		dotenv = map[string]string{}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}, nil
}

// ApplyEnv copies every WORDCRAWLER_* variable found by lookup into cfg.
// List values are comma separated. WORDCRAWLER_TIMEOUT accepts a duration
// ("90s") or a number of seconds.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok
	}

	var errs []error
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w %s%s=%q", ErrInvalidEnv, EnvPrefix, name, v))
				return
			}
			*dst = n
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		if v, ok := get(name); ok {
			d, err := parseSecondsOrDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w %s%s=%q", ErrInvalidEnv, EnvPrefix, name, v))
				return
			}
			*dst = d
		}
	}
	setString := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	setList := func(name string, dst *[]string) {
		if v, ok := get(name); ok {
			*dst = splitList(v)
		}
	}

	setList(EnvStartPages, &cfg.StartPages)
	setList(EnvIgnoredURLs, &cfg.IgnoredURLs)
	setList(EnvIgnoredWords, &cfg.IgnoredWords)
	setInt(EnvParallelism, &cfg.Parallelism)
	setString(EnvImplementation, &cfg.ImplementationOverride)
	setInt(EnvMaxDepth, &cfg.MaxDepth)
	setDuration(EnvTimeout, &cfg.Timeout)
	setInt(EnvPopularWordCount, &cfg.PopularWordCount)
	setString(EnvProfileOutputPath, &cfg.ProfileOutputPath)
	setString(EnvResultPath, &cfg.ResultPath)
	setString(EnvUserAgent, &cfg.UserAgent)
	setDuration(EnvRequestInterval, &cfg.RequestInterval)
	setString(EnvDBDir, &cfg.DBDir)

	if v, ok := get(EnvReportFormat); ok {
		format, err := report.ParseFormat(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %s%s: %w", ErrInvalidEnv, EnvPrefix, EnvReportFormat, err))
		} else {
			cfg.ReportFormat = format
		}
	}

	return errors.Join(errs...)
}

// parseSecondsOrDuration parses "90s"-style durations and plain seconds.
func parseSecondsOrDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

// splitList splits a comma separated list, dropping empty elements.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
