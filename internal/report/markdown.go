package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/wordcrawler/internal/crawler"
)

// pieChartWords is the number of leading words shown in the pie chart.
const pieChartWords = 10

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *crawler.Result) (int, error) {
	result = emptyIfNil(result)
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeWords(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and crawl summary.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *crawler.Result) {
	md.H1("Word Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URLs Visited", strconv.Itoa(result.URLsVisited)},
			{"Popular Words", strconv.Itoa(len(result.WordCounts))},
		},
	})
	md.PlainText("")
}

// writeWords writes the ranked word table.
func (w *MarkdownWriter) writeWords(md *markdown.Markdown, result *crawler.Result) {
	md.H2("Popular Words")
	md.PlainText("")

	if len(result.WordCounts) == 0 {
		md.Note("No words were collected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.WordCounts))
	for i, wc := range result.WordCounts {
		rows[i] = []string{strconv.Itoa(i + 1), "`" + wc.Word + "`", strconv.Itoa(wc.Count)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Word", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, result)
}

// writePieChart writes a mermaid pie chart of the leading words.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, result *crawler.Result) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Word Distribution"),
		piechart.WithShowData(true),
	)

	for _, wc := range result.WordCounts[:min(pieChartWords, len(result.WordCounts))] {
		chart.LabelAndIntValue(wc.Word, uint64(wc.Count)) //nolint:gosec // counts are positive
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wordcrawler](https://github.com/nao1215/wordcrawler)*")
}
