package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wordcrawler/internal/crawler"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether the word section is shown when no words
	// were collected.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *crawler.Result) (int, error) {
	result = emptyIfNil(result)
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeWords(&sb, result)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with crawl totals.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *crawler.Result) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         WORD CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URLs Visited:   %d\n", result.URLsVisited)
	fmt.Fprintf(sb, "Popular Words:  %d\n", len(result.WordCounts))
	sb.WriteString("\n")
}

// writeWords writes the ranked words, aligned on the longest word.
func (w *SimpleWriter) writeWords(sb *strings.Builder, result *crawler.Result) {
	if len(result.WordCounts) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("POPULAR WORDS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(result.WordCounts) == 0 {
		sb.WriteString("  No words collected\n\n")
		return
	}

	width := 0
	for _, wc := range result.WordCounts {
		width = max(width, len([]rune(wc.Word)))
	}
	for i, wc := range result.WordCounts {
		fmt.Fprintf(sb, "  %4d. %-*s %d\n", i+1, width, wc.Word, wc.Count)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
