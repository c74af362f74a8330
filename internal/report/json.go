package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/cluescrape/internal/model"
)

// JSONWriter outputs the corpus in JSON format.
//
// Hebrew text is written as UTF-8 rather than \u escapes, and characters
// such as '<' and '&' in clue titles are left as they are.
type JSONWriter struct {
	baseWriter

	// indentString is the indentation per level. Empty means compact output.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent sets the indentation used for each nesting level.
func WithIndent(indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indentString = indent
	}
}

// WithCompact disables indentation.
func WithCompact() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indentString = ""
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
// Output is indented with four spaces unless configured otherwise.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indentString: "    ",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the corpus in JSON format.
func (w *JSONWriter) Write(corpus *model.Corpus) (int, error) {
	if corpus == nil {
		corpus = model.NewCorpus()
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indentString != "" {
		enc.SetIndent("", w.indentString)
	}
	if err := enc.Encode(corpus); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
