package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/wordcrawler/internal/crawler"
)

// WriteFile renders result in format and appends it to the file at path,
// creating the file and its directory if needed. An empty path writes to
// stdout. The result is also rendered to every writer in also, after the
// file.
func WriteFile(path string, format Format, result *crawler.Result, also ...io.Writer) error {
	if path == "" {
		return write(os.Stdout, format, result, also...)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create result directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open result file: %w", err)
	}

	if err := write(f, format, result, also...); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func write(output io.Writer, format Format, result *crawler.Result, also ...io.Writer) error {
	writers := make([]Writer, 0, 1+len(also))
	for _, out := range append([]io.Writer{output}, also...) {
		w, err := NewWriter(format, out)
		if err != nil {
			return err
		}
		writers = append(writers, w)
	}
	if _, err := NewMultiWriter(writers...).Write(result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
