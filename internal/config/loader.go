package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/wordcrawler/internal/report"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default crawl file name looked up in the current
// and home directories.
const DefaultConfigFile = ".wordcrawler.yaml"

// XDGConfigFile is the crawl file name looked up in the XDG config directory.
const XDGConfigFile = "config.yaml"

// File is the crawl file. YAML is a superset of JSON, so JSON crawl files
// load as well. Absent keys leave the configuration unchanged.
type File struct {
	StartPages             []string `yaml:"startPages,omitempty"`
	IgnoredURLs            []string `yaml:"ignoredUrls,omitempty"`
	IgnoredWords           []string `yaml:"ignoredWords,omitempty"`
	Parallelism            *int     `yaml:"parallelism,omitempty"`
	ImplementationOverride *string  `yaml:"implementationOverride,omitempty"`
	MaxDepth               *int     `yaml:"maxDepth,omitempty"`
	TimeoutSeconds         *float64 `yaml:"timeoutSeconds,omitempty"`
	PopularWordCount       *int     `yaml:"popularWordCount,omitempty"`
	ProfileOutputPath      *string  `yaml:"profileOutputPath,omitempty"`
	ResultPath             *string  `yaml:"resultPath,omitempty"`

	ReportFormat    *string `yaml:"reportFormat,omitempty"`
	UserAgent       *string `yaml:"userAgent,omitempty"`
	MaxBodySize     *int64  `yaml:"maxBodySize,omitempty"`
	RequestTimeout  *string `yaml:"requestTimeout,omitempty"`
	RequestInterval *string `yaml:"requestInterval,omitempty"`
	DBDir           *string `yaml:"dbDir,omitempty"`
}

// LoadConfigFile loads a crawl file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cf, nil
}

// Apply copies every key present in the file into cfg.
func (cf *File) Apply(cfg *Config) error {
	if cf.StartPages != nil {
		cfg.StartPages = cf.StartPages
	}
	if cf.IgnoredURLs != nil {
		cfg.IgnoredURLs = cf.IgnoredURLs
	}
	if cf.IgnoredWords != nil {
		cfg.IgnoredWords = cf.IgnoredWords
	}
	if cf.Parallelism != nil {
		cfg.Parallelism = *cf.Parallelism
	}
	if cf.ImplementationOverride != nil {
		cfg.ImplementationOverride = *cf.ImplementationOverride
	}
	if cf.MaxDepth != nil {
		cfg.MaxDepth = *cf.MaxDepth
	}
	if cf.TimeoutSeconds != nil {
		cfg.Timeout = time.Duration(*cf.TimeoutSeconds * float64(time.Second))
	}
	if cf.PopularWordCount != nil {
		cfg.PopularWordCount = *cf.PopularWordCount
	}
	if cf.ProfileOutputPath != nil {
		cfg.ProfileOutputPath = *cf.ProfileOutputPath
	}
	if cf.ResultPath != nil {
		cfg.ResultPath = *cf.ResultPath
	}
	if cf.ReportFormat != nil {
		format, err := report.ParseFormat(*cf.ReportFormat)
		if err != nil {
			return err
		}
		cfg.ReportFormat = format
	}
	if cf.UserAgent != nil {
		cfg.UserAgent = *cf.UserAgent
	}
	if cf.MaxBodySize != nil {
		cfg.MaxBodySize = *cf.MaxBodySize
	}
	if cf.RequestTimeout != nil {
		d, err := time.ParseDuration(*cf.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid requestTimeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if cf.RequestInterval != nil {
		d, err := time.ParseDuration(*cf.RequestInterval)
		if err != nil {
			return fmt.Errorf("invalid requestInterval: %w", err)
		}
		cfg.RequestInterval = d
	}
	if cf.DBDir != nil {
		cfg.DBDir = *cf.DBDir
	}
	return nil
}

// FindConfigFile searches for the crawl file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .wordcrawler.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .wordcrawler.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
