package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/cluescrape/internal/model"
)

// SimpleWriter outputs a short human-readable corpus summary for terminal
// display.
type SimpleWriter struct {
	baseWriter

	// verbose adds the per-letter and per-length breakdown.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the detailed breakdown.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
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

// Write outputs the summary.
func (w *SimpleWriter) Write(corpus *model.Corpus) (int, error) {
	if corpus == nil {
		corpus = model.NewCorpus()
	}
	stats := corpus.Stats()

	var sb strings.Builder
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Letters:               %d\n", stats.Letters))
	sb.WriteString(fmt.Sprintf("Clues:                 %d\n", stats.Clues))
	sb.WriteString(fmt.Sprintf("Clues without answers: %d\n", stats.CluesWithoutAnswers))
	sb.WriteString(fmt.Sprintf("Answers:               %d\n", stats.Answers))

	if w.verbose {
		sb.WriteString("\nClues per letter:\n")
		for _, letter := range corpus.Letters() {
			sb.WriteString(fmt.Sprintf("  %s  %d\n", letter, stats.CluesPerLetter[letter]))
		}
		if lengths := stats.SortedLengths(); len(lengths) > 0 {
			sb.WriteString("\nAnswers per length:\n")
			for _, length := range lengths {
				sb.WriteString(fmt.Sprintf("  %3d  %d\n", length, stats.AnswersPerLength[length]))
			}
		}
	}

	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}
