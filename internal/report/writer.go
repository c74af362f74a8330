package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/cluescrape/internal/model"
)

// Writer defines the interface for corpus output.
type Writer interface {
	// Write outputs the corpus to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(corpus *model.Corpus) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// WriteFile writes corpus to path with the writer returned by newWriter.
// Missing parent directories are created and an existing file is
// truncated.
func WriteFile(path string, corpus *model.Corpus, newWriter func(io.Writer) Writer) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if _, err := newWriter(f).Write(corpus); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
