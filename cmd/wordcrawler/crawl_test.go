package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wordcrawler/internal/config"
	"github.com/nao1215/wordcrawler/internal/database"
	"github.com/nao1215/wordcrawler/internal/report"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSiteServer serves a small site: "/" links to "/a", "/a" links back
// to "/" and on to "/b".
func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	pages := map[string]string{
		"/":  `<html><body><p>alpha beta beta</p><a href="/a"></a></body></html>`,
		"/a": `<html><body><p>beta gamma</p><a href="/"></a><a href="/b"></a></body></html>`,
		"/b": `<html><body><p>delta delta delta delta</p></body></html>`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// jsonResult mirrors the JSON result document.
type jsonResult struct {
	WordCounts  map[string]int `json:"wordCounts"`
	URLsVisited int            `json:"urlsVisited"`
}

func readJSONResult(t *testing.T, path string) jsonResult {
	t.Helper()

	data, err := os.ReadFile(path) //nolint:gosec // test file
	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}
	var result jsonResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to decode result %q: %v", data, err)
	}
	return result
}

func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	if cmd.Use != "crawl [url...]" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}

	flagsWithShort := map[string]string{
		"config":         "c",
		"depth":          "d",
		"timeout":        "t",
		"parallelism":    "p",
		"popular-words":  "n",
		"implementation": "i",
		"output":         "o",
		"format":         "f",
	}
	for flag, shorthand := range flagsWithShort {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("expected flag %q to exist", flag)
			continue
		}
		if f.Shorthand != shorthand {
			t.Errorf("flag %q: expected shorthand %q, got %q", flag, shorthand, f.Shorthand)
		}
	}

	for _, flag := range []string{
		"env-file", "ignore-url", "ignore-word", "profile-output", "tee", "user-agent",
		"request-timeout", "request-interval", "max-body-size", "no-db", "db-dir",
	} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag %q to exist", flag)
		}
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	writeCrawlFile := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "crawl.yaml")
		content := `startPages:
  - https://file.example/
maxDepth: 3
parallelism: 2
popularWordCount: 5
reportFormat: markdown
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	noEnv := func(string) (string, bool) { return "", false }

	t.Run("layers file, environment and flags", func(t *testing.T) {
		t.Parallel()
		path := writeCrawlFile(t)

		env := map[string]string{
			"WORDCRAWLER_MAX_DEPTH":          "4",
			"WORDCRAWLER_POPULAR_WORD_COUNT": "7",
		}
		lookup := func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		}

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", path, "-d", "6", "--no-db"}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil, lookup)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.ConfigFilePath != path {
			t.Errorf("ConfigFilePath = %q, want %q", cfg.ConfigFilePath, path)
		}
		if len(cfg.StartPages) != 1 || cfg.StartPages[0] != "https://file.example/" {
			t.Errorf("StartPages = %v, want the crawl file value", cfg.StartPages)
		}
		if cfg.Parallelism != 2 {
			t.Errorf("Parallelism = %d, want 2 from the crawl file", cfg.Parallelism)
		}
		if cfg.PopularWordCount != 7 {
			t.Errorf("PopularWordCount = %d, want 7 from the environment", cfg.PopularWordCount)
		}
		if cfg.MaxDepth != 6 {
			t.Errorf("MaxDepth = %d, want 6 from the flag", cfg.MaxDepth)
		}
		if cfg.ReportFormat != report.FormatMarkdown {
			t.Errorf("ReportFormat = %q, want markdown", cfg.ReportFormat)
		}
		if cfg.SaveToDB {
			t.Error("expected --no-db to disable the history database")
		}
	})

	t.Run("unset flags keep lower layers", func(t *testing.T) {
		t.Parallel()
		path := writeCrawlFile(t)

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", path}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil, noEnv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxDepth != 3 {
			t.Errorf("MaxDepth = %d, want 3 from the crawl file", cfg.MaxDepth)
		}
		if !cfg.SaveToDB {
			t.Error("expected the history database to be enabled by default")
		}
	})

	t.Run("arguments replace start pages", func(t *testing.T) {
		t.Parallel()
		path := writeCrawlFile(t)

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", path}); err != nil {
			t.Fatal(err)
		}

		args := []string{"https://one.example/", "https://two.example/"}
		cfg, err := buildConfig(cmd, args, noEnv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.StartPages) != 2 || cfg.StartPages[0] != args[0] || cfg.StartPages[1] != args[1] {
			t.Errorf("StartPages = %v, want %v", cfg.StartPages, args)
		}
	})

	t.Run("list flags", func(t *testing.T) {
		t.Parallel()
		path := writeCrawlFile(t)

		cmd := NewCrawlCmd()
		err := cmd.ParseFlags([]string{
			"-c", path,
			"--ignore-url", `.*\.png`,
			"--ignore-url", `.*\.pdf`,
			"--ignore-word", `.{1,3}`,
			"-t", "90s",
			"-f", "text",
		})
		if err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil, noEnv)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.IgnoredURLs) != 2 {
			t.Errorf("IgnoredURLs = %v, want 2 patterns", cfg.IgnoredURLs)
		}
		if len(cfg.IgnoredWords) != 1 || cfg.IgnoredWords[0] != ".{1,3}" {
			t.Errorf("IgnoredWords = %v", cfg.IgnoredWords)
		}
		if cfg.Timeout != 90*time.Second {
			t.Errorf("Timeout = %v, want 90s", cfg.Timeout)
		}
		if cfg.ReportFormat != report.FormatText {
			t.Errorf("ReportFormat = %q, want text", cfg.ReportFormat)
		}
	})

	t.Run("missing explicit crawl file", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		missing := filepath.Join(t.TempDir(), "missing.yaml")
		if err := cmd.ParseFlags([]string{"-c", missing}); err != nil {
			t.Fatal(err)
		}

		_, err := buildConfig(cmd, nil, noEnv)
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid format flag", func(t *testing.T) {
		t.Parallel()
		path := writeCrawlFile(t)

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", path, "-f", "xml"}); err != nil {
			t.Fatal(err)
		}

		_, err := buildConfig(cmd, nil, noEnv)
		if !errors.Is(err, report.ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Parallel()
		path := writeCrawlFile(t)

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"-c", path}); err != nil {
			t.Fatal(err)
		}

		lookup := func(key string) (string, bool) {
			if key == config.EnvPrefix+config.EnvMaxDepth {
				return "deep", true
			}
			return "", false
		}
		_, err := buildConfig(cmd, nil, lookup)
		if !errors.Is(err, config.ErrInvalidEnv) {
			t.Errorf("expected ErrInvalidEnv, got %v", err)
		}
	})
}

// newTestConfig returns a Config that crawls srv and writes everything
// below dir.
func newTestConfig(srv *httptest.Server, dir string) *config.Config {
	cfg := config.NewConfig()
	cfg.StartPages = []string{srv.URL + "/"}
	cfg.MaxDepth = 2
	cfg.Timeout = 30 * time.Second
	cfg.ResultPath = filepath.Join(dir, "result.json")
	cfg.ProfileOutputPath = filepath.Join(dir, "profile.txt")
	cfg.DBDir = filepath.Join(dir, "db")
	cfg.ReportFormat = report.FormatJSON
	return cfg
}

func TestRunCrawl(t *testing.T) {
	t.Parallel()

	for _, implementation := range []string{config.ImplementationParallel, config.ImplementationSequential} {
		t.Run(implementation, func(t *testing.T) {
			t.Parallel()
			srv := newSiteServer(t)
			dir := t.TempDir()

			cfg := newTestConfig(srv, dir)
			cfg.ImplementationOverride = implementation

			var stdout bytes.Buffer
			if err := runCrawl(context.Background(), cfg, discardLogger(), &stdout); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if stdout.Len() != 0 {
				t.Errorf("expected nothing on stdout, got %q", stdout.String())
			}

			result := readJSONResult(t, cfg.ResultPath)
			if result.URLsVisited != 2 {
				t.Errorf("URLsVisited = %d, want 2", result.URLsVisited)
			}
			want := map[string]int{"beta": 3, "alpha": 1, "gamma": 1}
			if len(result.WordCounts) != len(want) {
				t.Errorf("WordCounts = %v, want %v", result.WordCounts, want)
			}
			for word, count := range want {
				if result.WordCounts[word] != count {
					t.Errorf("count of %q = %d, want %d", word, result.WordCounts[word], count)
				}
			}

			profile, err := os.ReadFile(cfg.ProfileOutputPath)
			if err != nil {
				t.Fatalf("failed to read profile: %v", err)
			}
			for _, want := range []string{"Run at ", "parser.Parser#Parse took ", "#Crawl took "} {
				if !strings.Contains(string(profile), want) {
					t.Errorf("expected profile to contain %q, got %q", want, profile)
				}
			}

			db, err := database.Open(cfg.DBDir, database.Options{})
			if err != nil {
				t.Fatalf("expected history database: %v", err)
			}
			defer db.Close()

			runs, err := db.ListRuns(context.Background(), 0)
			if err != nil {
				t.Fatal(err)
			}
			if len(runs) != 1 {
				t.Fatalf("expected 1 saved run, got %d", len(runs))
			}
			run, err := db.GetRun(context.Background(), runs[0].ID)
			if err != nil {
				t.Fatal(err)
			}
			if run.Implementation != implementation {
				t.Errorf("Implementation = %q, want %q", run.Implementation, implementation)
			}
			if run.MaxDepth != 2 {
				t.Errorf("MaxDepth = %d, want 2", run.MaxDepth)
			}
			if implementation == config.ImplementationSequential && run.Parallelism != 1 {
				t.Errorf("Parallelism = %d, want 1", run.Parallelism)
			}
			if run.URLsVisited != 2 || len(run.WordCounts) != 3 {
				t.Errorf("saved result = %d URLs, %v", run.URLsVisited, run.WordCounts)
			}
			if run.WordCounts[0].Word != "beta" {
				t.Errorf("most popular word = %q, want beta", run.WordCounts[0].Word)
			}
		})
	}
}

func TestRunCrawlWritesToStdout(t *testing.T) {
	t.Parallel()
	srv := newSiteServer(t)

	cfg := newTestConfig(srv, t.TempDir())
	cfg.ResultPath = ""
	cfg.ProfileOutputPath = ""
	cfg.SaveToDB = false
	cfg.ReportFormat = report.FormatText

	var stdout bytes.Buffer
	if err := runCrawl(context.Background(), cfg, discardLogger(), &stdout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	for _, want := range []string{"WORD CRAWL REPORT", "beta", "Run at ", "#Parse took "} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
	if _, err := os.Stat(cfg.DBDir); !os.IsNotExist(err) {
		t.Error("expected no history database with SaveToDB disabled")
	}
}

func TestRunCrawlTeesResult(t *testing.T) {
	t.Parallel()
	srv := newSiteServer(t)

	cfg := newTestConfig(srv, t.TempDir())
	cfg.TeeResult = true
	cfg.SaveToDB = false

	var stdout bytes.Buffer
	if err := runCrawl(context.Background(), cfg, discardLogger(), &stdout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(cfg.ResultPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout.String(), string(data)) {
		t.Errorf("expected stdout to start with the result file content\nfile:\n%s\nstdout:\n%s", data, stdout.String())
	}
	if readJSONResult(t, cfg.ResultPath).URLsVisited != 2 {
		t.Error("expected the result file to hold the crawl result")
	}
}

func TestRunCrawlAppendsResults(t *testing.T) {
	t.Parallel()
	srv := newSiteServer(t)

	cfg := newTestConfig(srv, t.TempDir())
	cfg.ReportFormat = report.FormatText

	for range 2 {
		if err := runCrawl(context.Background(), cfg, discardLogger(), io.Discard); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	data, err := os.ReadFile(cfg.ResultPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "WORD CRAWL REPORT"); n != 2 {
		t.Errorf("expected 2 appended reports, got %d", n)
	}

	profile, err := os.ReadFile(cfg.ProfileOutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(profile), "Run at "); n != 2 {
		t.Errorf("expected 2 appended profiles, got %d", n)
	}
}

func TestRunCrawlInterrupted(t *testing.T) {
	t.Parallel()
	srv := newSiteServer(t)

	cfg := newTestConfig(srv, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runCrawl(ctx, cfg, discardLogger(), io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	// The partial result and the history record are still written.
	readJSONResult(t, cfg.ResultPath)

	db, err := database.Open(cfg.DBDir, database.Options{})
	if err != nil {
		t.Fatalf("expected history database: %v", err)
	}
	defer db.Close()
	runs, err := db.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 saved run, got %d", len(runs))
	}
}

func TestRunCrawlInvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(cfg *config.Config)
	}{
		{
			name:   "unknown implementation",
			modify: func(cfg *config.Config) { cfg.ImplementationOverride = "recursive" },
		},
		{
			name:   "invalid ignored URL pattern",
			modify: func(cfg *config.Config) { cfg.IgnoredURLs = []string{"("} },
		},
		{
			name:   "invalid ignored word pattern",
			modify: func(cfg *config.Config) { cfg.IgnoredWords = []string{"["} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.NewConfig()
			cfg.StartPages = []string{"https://example.com/"}
			cfg.SaveToDB = false
			tt.modify(cfg)

			err := runCrawl(context.Background(), cfg, discardLogger(), io.Discard)
			if err == nil || !strings.Contains(err.Error(), "configuration error") {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestCrawlCommand(t *testing.T) {
	t.Parallel()
	srv := newSiteServer(t)
	dir := t.TempDir()

	crawlFile := filepath.Join(dir, "crawl.yaml")
	if err := os.WriteFile(crawlFile, []byte("popularWordCount: 1\n"), 0600); err != nil {
		t.Fatal(err)
	}
	resultPath := filepath.Join(dir, "result.json")

	var stdout bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(io.Discard)
	root.SetArgs([]string{
		"crawl",
		"-c", crawlFile,
		"--env-file", filepath.Join(dir, "missing.env"),
		"-d", "3",
		"-p", "2",
		"-o", resultPath,
		"--db-dir", filepath.Join(dir, "db"),
		srv.URL + "/",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := readJSONResult(t, resultPath)
	if result.URLsVisited != 3 {
		t.Errorf("URLsVisited = %d, want 3", result.URLsVisited)
	}
	if len(result.WordCounts) != 1 || result.WordCounts["delta"] != 4 {
		t.Errorf("WordCounts = %v, want only delta=4", result.WordCounts)
	}
	if !strings.Contains(stdout.String(), "#Crawl took ") {
		t.Errorf("expected profile on stdout, got %q", stdout.String())
	}
}

func TestCrawlCommandWithoutStartPages(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	crawlFile := filepath.Join(dir, "crawl.yaml")
	if err := os.WriteFile(crawlFile, []byte("maxDepth: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{
		"crawl",
		"-c", crawlFile,
		"--env-file", filepath.Join(dir, "missing.env"),
		"--no-db",
	})

	err := root.Execute()
	if !errors.Is(err, config.ErrNoStartPages) {
		t.Errorf("expected ErrNoStartPages, got %v", err)
	}
}
