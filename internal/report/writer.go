package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wordcrawler/internal/crawler"
)

// Writer defines the interface for result output.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *crawler.Result) (int, error)
}

// Format names an output format.
type Format string

const (
	// FormatJSON is the JSON result document.
	FormatJSON Format = "json"
	// FormatMarkdown is a Markdown report.
	FormatMarkdown Format = "markdown"
	// FormatText is human-readable plain text.
	FormatText Format = "text"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatMarkdown, FormatText}
}

// ParseFormat returns the Format named by s. The comparison is case-insensitive
// and "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "simple":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// NewWriter returns the Writer for format, writing to output.
func NewWriter(format Format, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatText:
		return NewSimpleWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// MultiWriter writes to multiple Writers in order.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(result *crawler.Result) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// emptyIfNil lets writers render a nil result as an empty one.
func emptyIfNil(result *crawler.Result) *crawler.Result {
	if result == nil {
		return &crawler.Result{}
	}
	return result
}
