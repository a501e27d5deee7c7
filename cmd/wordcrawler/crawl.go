package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nao1215/wordcrawler/internal/config"
	"github.com/nao1215/wordcrawler/internal/crawler"
	"github.com/nao1215/wordcrawler/internal/database"
	"github.com/nao1215/wordcrawler/internal/log"
	"github.com/nao1215/wordcrawler/internal/parser"
	"github.com/nao1215/wordcrawler/internal/profiler"
	"github.com/nao1215/wordcrawler/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl pages and count the most popular words",
		Long: `Crawl fetches the given URLs, follows their links up to --depth levels
and counts the words of every page it visited, until every reachable page
was visited or --timeout expired.

URLs may be http, https or file URLs, or local file paths. Each page is
fetched at most once per crawl. Pages that fail to load are skipped.

The result lists the --popular-words most frequent words, most popular
first, with ties broken by longer word first and then alphabetically.

Examples:
  # Crawl a site two links deep
  wordcrawler crawl -d 2 https://example.com/

  # Crawl using a crawl file
  wordcrawler crawl -c crawl.yaml

  # Skip images and short words, write a Markdown report
  wordcrawler crawl --ignore-url '.*\.png' --ignore-word '.{1,3}' \
      -f markdown -o report.md https://example.com/

  # Use the single-threaded crawler
  wordcrawler crawl --implementation sequential https://example.com/`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Source flags
	cmd.Flags().StringP("config", "c", "",
		"Crawl file path (default: .wordcrawler.yaml in current, XDG config or home directory)")
	cmd.Flags().String("env-file", config.DefaultEnvFile,
		"dotenv file with WORDCRAWLER_* variables")

	// Crawl behavior flags
	cmd.Flags().IntP("depth", "d", crawler.DefaultMaxDepth,
		"Maximum link depth (1 fetches only the starting URLs)")
	cmd.Flags().DurationP("timeout", "t", crawler.DefaultTimeout,
		"Time budget of the whole crawl")
	cmd.Flags().IntP("parallelism", "p", 0,
		"Pages fetched at the same time (0: number of CPUs)")
	cmd.Flags().IntP("popular-words", "n", crawler.DefaultPopularWordCount,
		"Number of words in the result")
	cmd.Flags().StringP("implementation", "i", config.ImplementationParallel,
		"Crawler implementation: parallel or sequential")
	cmd.Flags().StringSlice("ignore-url", nil,
		"Regular expression of URLs to skip (repeatable)")
	cmd.Flags().StringSlice("ignore-word", nil,
		"Regular expression of words to skip (repeatable)")

	// HTTP flags
	cmd.Flags().String("user-agent", parser.DefaultUserAgent,
		"User-Agent header of HTTP requests")
	cmd.Flags().Duration("request-timeout", parser.DefaultRequestTimeout,
		"Timeout of a single page fetch")
	cmd.Flags().Duration("request-interval", 0,
		"Minimum delay between two HTTP requests")
	cmd.Flags().Int64("max-body-size", parser.DefaultMaxBodySize,
		"Maximum bytes read per page")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"Append the result to this file (default: stdout)")
	cmd.Flags().Bool("tee", false,
		"Also print the result to stdout when --output is set")
	cmd.Flags().StringP("format", "f", string(config.DefaultReportFormat),
		"Result format: json, markdown or text")
	cmd.Flags().String("profile-output", "",
		"Append profiling data to this file (default: stdout)")

	// History flags
	cmd.Flags().Bool("no-db", false,
		"Do not save the crawl to the history database")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return err
	}
	lookup, err := config.EnvLookup(envFile)
	if err != nil {
		return err
	}

	cfg, err := buildConfig(cmd, args, lookup)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.JSONLogs)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Warn("received shutdown signal, stopping crawl...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return false
	}
	return verbose
}

// buildConfig creates a Config from, in increasing order of precedence,
// the defaults, the crawl file, the environment and the flags the user set.
func buildConfig(cmd *cobra.Command, args []string, lookup config.LookupFunc) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly requested crawl file must exist; the default locations
	// are optional.
	found := config.FindConfigFile(configPath)
	switch {
	case found != "":
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load crawl file %s: %w", found, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid crawl file %s: %w", found, err)
		}
		cfg.ConfigFilePath = found
	case configPath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, configPath)
	}

	if err := config.ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.StartPages = args
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.JSONLogs, _ = flags.GetBool("log-json") //nolint:errcheck // defined on the root command only

	return cfg, nil
}

// applyFlags copies the flags that were set on the command line into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("depth") {
		if cfg.MaxDepth, err = flags.GetInt("depth"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("parallelism") {
		if cfg.Parallelism, err = flags.GetInt("parallelism"); err != nil {
			return err
		}
	}
	if flags.Changed("popular-words") {
		if cfg.PopularWordCount, err = flags.GetInt("popular-words"); err != nil {
			return err
		}
	}
	if flags.Changed("implementation") {
		if cfg.ImplementationOverride, err = flags.GetString("implementation"); err != nil {
			return err
		}
	}
	if flags.Changed("ignore-url") {
		if cfg.IgnoredURLs, err = flags.GetStringSlice("ignore-url"); err != nil {
			return err
		}
	}
	if flags.Changed("ignore-word") {
		if cfg.IgnoredWords, err = flags.GetStringSlice("ignore-word"); err != nil {
			return err
		}
	}
	if flags.Changed("user-agent") {
		if cfg.UserAgent, err = flags.GetString("user-agent"); err != nil {
			return err
		}
	}
	if flags.Changed("request-timeout") {
		if cfg.RequestTimeout, err = flags.GetDuration("request-timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("request-interval") {
		if cfg.RequestInterval, err = flags.GetDuration("request-interval"); err != nil {
			return err
		}
	}
	if flags.Changed("max-body-size") {
		if cfg.MaxBodySize, err = flags.GetInt64("max-body-size"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.ResultPath, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("tee") {
		if cfg.TeeResult, err = flags.GetBool("tee"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		format, err := flags.GetString("format")
		if err != nil {
			return err
		}
		if cfg.ReportFormat, err = report.ParseFormat(format); err != nil {
			return err
		}
	}
	if flags.Changed("profile-output") {
		if cfg.ProfileOutputPath, err = flags.GetString("profile-output"); err != nil {
			return err
		}
	}
	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return err
		}
	}

	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noDB

	return nil
}

// runCrawl executes the crawl described by cfg and writes the result, the
// profiling data and the history record.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	prof := profiler.New(nil)

	pageParser, err := parser.New(
		parser.WithUserAgent(cfg.UserAgent),
		parser.WithMaxBodySize(cfg.MaxBodySize),
		parser.WithRequestTimeout(cfg.RequestTimeout),
		parser.WithRequestInterval(cfg.RequestInterval),
		parser.WithIgnoredWords(cfg.IgnoredWords),
		parser.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	implementation, err := config.ParseImplementation(cfg.ImplementationOverride)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	c, parallelism, err := newCrawler(implementation, profiler.WrapParser(prof, pageParser), cfg, logger)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var db *database.CrawlDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "path", db.Path())
	}

	run := database.NewRun(cfg.StartPages, time.Now())
	run.Implementation = implementation
	run.MaxDepth = cfg.MaxDepth
	run.Parallelism = parallelism

	result, crawlErr := profiler.WrapCrawler(prof, c).Crawl(ctx, cfg.StartPages)
	run.FinishedAt = time.Now()
	run.SetResult(result)
	if crawlErr != nil {
		logger.Warn("crawl interrupted, writing partial result", "error", crawlErr)
	}

	if err := writeResult(cfg, result, stdout); err != nil {
		return err
	}

	if err := writeProfile(cfg, prof, stdout); err != nil {
		return err
	}

	if db != nil {
		// The crawl context may be cancelled already; the record is still saved.
		if err := db.SaveRun(context.WithoutCancel(ctx), run); err != nil {
			logger.Error("failed to save crawl run", "error", err)
		} else {
			logger.Info("crawl run saved to database", "id", run.ID)
		}
	}

	if crawlErr != nil {
		return fmt.Errorf("crawl interrupted: %w", crawlErr)
	}
	return nil
}

// newCrawler builds the crawler named by implementation and returns it with
// the parallelism it runs with.
func newCrawler(implementation string, pageParser crawler.PageParser, cfg *config.Config, logger *slog.Logger) (crawler.Crawler, int, error) {
	opts := []crawler.Option{
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithPopularWordCount(cfg.PopularWordCount),
		crawler.WithIgnoredURLs(cfg.IgnoredURLs),
		crawler.WithLogger(logger),
	}

	if implementation == config.ImplementationSequential {
		c, err := crawler.NewSequentialCrawler(pageParser, opts...)
		if err != nil {
			return nil, 0, err
		}
		return c, c.MaxParallelism(), nil
	}

	// The maximum is a property of the implementation, so it is read from a
	// crawler built with the default parallelism.
	probe, err := crawler.NewParallelCrawler(pageParser, opts...)
	if err != nil {
		return nil, 0, err
	}
	maxParallelism := probe.MaxParallelism()
	parallelism := cfg.EffectiveParallelism(maxParallelism)
	if cfg.Parallelism > maxParallelism {
		logger.Warn("parallelism capped to the number of CPUs",
			"requested", cfg.Parallelism,
			"max", maxParallelism,
		)
	}

	c, err := crawler.NewParallelCrawler(pageParser, append(opts, crawler.WithParallelism(parallelism))...)
	if err != nil {
		return nil, 0, err
	}
	return c, parallelism, nil
}

// writeResult appends the result to cfg.ResultPath, or writes it to stdout.
// With cfg.TeeResult the appended result is printed to stdout as well.
func writeResult(cfg *config.Config, result *crawler.Result, stdout io.Writer) error {
	if cfg.ResultPath != "" {
		var also []io.Writer
		if cfg.TeeResult {
			also = append(also, stdout)
		}
		if err := report.WriteFile(cfg.ResultPath, cfg.ReportFormat, result, also...); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		return nil
	}

	w, err := report.NewWriter(cfg.ReportFormat, stdout)
	if err != nil {
		return err
	}
	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// writeProfile appends the profiling data to cfg.ProfileOutputPath, or
// writes it to stdout.
func writeProfile(cfg *config.Config, prof *profiler.Profiler, stdout io.Writer) error {
	if cfg.ProfileOutputPath != "" {
		return prof.WriteFile(cfg.ProfileOutputPath)
	}
	if err := prof.WriteData(stdout); err != nil {
		return fmt.Errorf("failed to write profile data: %w", err)
	}
	return nil
}
