package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/nao1215/wordcrawler/internal/crawler"
	"golang.org/x/time/rate"
)

// Default fetch settings.
const (
	// DefaultUserAgent identifies wordcrawler in HTTP requests.
	DefaultUserAgent = "wordcrawler/1.0 (+https://github.com/nao1215/wordcrawler)"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultRequestTimeout bounds a single page fetch.
	DefaultRequestTimeout = 30 * time.Second
)

// Parser fetches pages and extracts words and links from them.
// It is safe for concurrent use.
type Parser struct {
	// client performs HTTP requests.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies and files to read.
	maxBodySize int64

	// requestTimeout bounds each fetch.
	requestTimeout time.Duration

	// ignoredWordPatterns are the raw ignored word expressions.
	ignoredWordPatterns []string

	// ignoredWords are compiled from ignoredWordPatterns by New.
	ignoredWords []*regexp.Regexp

	// limiter spaces out HTTP requests. Nil means no limit.
	limiter *rate.Limiter

	logger *slog.Logger
}

var _ crawler.PageParser = (*Parser)(nil)

// Option configures a Parser.
type Option func(*Parser)

// WithHTTPClient sets the HTTP client used for http and https URLs.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Parser) {
		p.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Parser) {
		p.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of bytes read per page.
func WithMaxBodySize(size int64) Option {
	return func(p *Parser) {
		p.maxBodySize = size
	}
}

// WithRequestTimeout sets the timeout of a single fetch.
func WithRequestTimeout(d time.Duration) Option {
	return func(p *Parser) {
		p.requestTimeout = d
	}
}

// WithIgnoredWords sets regular expressions of words that are not counted.
// A word is ignored when a pattern matches it entirely.
func WithIgnoredWords(patterns []string) Option {
	return func(p *Parser) {
		p.ignoredWordPatterns = patterns
	}
}

// WithRequestInterval sets the minimum interval between two HTTP requests
// made by this Parser. Zero disables the limit.
func WithRequestInterval(d time.Duration) Option {
	return func(p *Parser) {
		if d <= 0 {
			p.limiter = nil
			return
		}
		p.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New creates a Parser.
// It fails if an ignored word pattern is not a valid regular expression.
func New(opts ...Option) (*Parser, error) {
	p := &Parser{
		client:         &http.Client{},
		userAgent:      DefaultUserAgent,
		maxBodySize:    DefaultMaxBodySize,
		requestTimeout: DefaultRequestTimeout,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.client == nil {
		p.client = &http.Client{}
	}
	if p.maxBodySize <= 0 {
		p.maxBodySize = DefaultMaxBodySize
	}

	for _, pattern := range p.ignoredWordPatterns {
		re, err := regexp.Compile(`^(?:` + pattern + `)$`)
		if err != nil {
			return nil, errors.Join(ErrInvalidIgnoredWord, fmt.Errorf("pattern %q: %w", pattern, err))
		}
		p.ignoredWords = append(p.ignoredWords, re)
	}

	return p, nil
}

// Parse fetches the page at pageURL and returns its word counts and links.
func (p *Parser) Parse(ctx context.Context, pageURL string) (*crawler.PageResult, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", pageURL, err)
	}

	var (
		body        []byte
		contentType string
	)

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		body, contentType, err = p.fetchHTTP(ctx, pageURL)
	case "file":
		body, err = p.readFile(u.Path)
	case "":
		body, err = p.readFile(u.Path)
		if err == nil {
			u = localFileURL(u.Path)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = contentTypeFromPath(u.Path)
	}

	if isPlainText(contentType) {
		return &crawler.PageResult{
			WordCounts: p.countWords(string(body)),
			Links:      []string{},
		}, nil
	}

	doc, err := parseDocument(u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	return &crawler.PageResult{
		WordCounts: p.countWords(doc.text),
		Links:      doc.links,
	}, nil
}

// fetchHTTP performs a GET request and returns the (size limited) body and
// the response content type.
func (p *Parser) fetchHTTP(ctx context.Context, pageURL string) ([]byte, string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, "", err
		}
	}

	if p.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.requestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBodySize))
	if err != nil {
		return nil, "", err
	}

	p.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	return body, resp.Header.Get("Content-Type"), nil
}

// readFile reads a local file, limited to maxBodySize bytes.
func (p *Parser) readFile(path string) ([]byte, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, p.maxBodySize))
}

// localFileURL converts a local path to a file URL so that relative links
// can be resolved against it.
func localFileURL(path string) *url.URL {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
}

// contentTypeFromPath guesses a content type from a file extension.
// Unknown extensions are treated as HTML.
func contentTypeFromPath(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "text/html"
}

func isPlainText(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/plain"
}
