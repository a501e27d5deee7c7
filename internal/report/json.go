package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/wordcrawler/internal/crawler"
)

// JSONWriter outputs results as the JSON result document:
//
//	{"wordCounts":{"word":3,...},"urlsVisited":5}
//
// The members of wordCounts appear in popularity order, which a Go map
// cannot carry, so the object is assembled by hand.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint indents nested members by two spaces.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in JSON format.
func (w *JSONWriter) Write(result *crawler.Result) (int, error) {
	data, err := MarshalResult(emptyIfNil(result))
	if err != nil {
		return 0, err
	}

	if w.indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return 0, err
		}
		data = buf.Bytes()
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// MarshalResult returns the compact JSON result document for result.
func MarshalResult(result *crawler.Result) ([]byte, error) {
	counts, err := MarshalWordCounts(result.WordCounts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(`{"wordCounts":`)
	buf.Write(counts)
	buf.WriteString(`,"urlsVisited":`)
	visited, err := json.Marshal(result.URLsVisited)
	if err != nil {
		return nil, err
	}
	buf.Write(visited)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalWordCounts encodes counts as a JSON object whose members keep the
// order of counts.
func MarshalWordCounts(counts []crawler.WordCount) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, wc := range counts {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(wc.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(wc.Count)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalWordCounts decodes a JSON object written by MarshalWordCounts,
// keeping member order.
func UnmarshalWordCounts(data []byte) ([]crawler.WordCount, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrInvalidWordCounts
	}

	counts := []crawler.WordCount{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		word, ok := tok.(string)
		if !ok {
			return nil, ErrInvalidWordCounts
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return nil, err
		}
		counts = append(counts, crawler.WordCount{Word: word, Count: n})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return counts, nil
}
