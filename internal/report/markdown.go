package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/cluescrape/internal/model"
)

// MarkdownWriter outputs a corpus summary in Markdown format.
// The full answer lists stay in the JSON file; this report covers counts
// per letter and per answer length.
type MarkdownWriter struct {
	baseWriter

	// source is the base URL the corpus was crawled from.
	source string

	// generatedAt is shown in the header table.
	generatedAt time.Time
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithSource records the crawled base URL in the header.
func WithSource(baseURL string) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.source = baseURL
	}
}

// WithGeneratedAt overrides the report timestamp.
func WithGeneratedAt(t time.Time) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.generatedAt = t
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter:  newBaseWriter(output),
		generatedAt: time.Now(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the corpus summary in Markdown format.
func (w *MarkdownWriter) Write(corpus *model.Corpus) (int, error) {
	if corpus == nil {
		corpus = model.NewCorpus()
	}
	stats := corpus.Stats()

	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, stats)
	w.writeLetters(md, corpus, stats)
	w.writeLengths(md, stats)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title, the totals table and an alert.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, stats model.CorpusStats) {
	md.H1("Crossword Clue Corpus")
	md.PlainText("")

	rows := make([][]string, 0, 6)
	if w.source != "" {
		rows = append(rows, []string{"Source", "`" + w.source + "`"})
	}
	rows = append(rows,
		[]string{"Generated", w.generatedAt.Format("2006-01-02 15:04:05 MST")},
		[]string{"Letters", strconv.Itoa(stats.Letters)},
		[]string{"Clues", strconv.Itoa(stats.Clues)},
		[]string{"Clues Without Answers", strconv.Itoa(stats.CluesWithoutAnswers)},
		[]string{"Answers", strconv.Itoa(stats.Answers)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	switch {
	case stats.Clues == 0:
		md.Warningf("No clues were collected from %d letter(s).", stats.Letters)
	case stats.CluesWithoutAnswers > 0:
		md.Importantf("%d clue(s) have no recognizable answer.", stats.CluesWithoutAnswers)
	default:
		md.Tip("Every clue has at least one answer.")
	}
	md.PlainText("")
}

// writeLetters writes the per-letter table and pie chart.
func (w *MarkdownWriter) writeLetters(md *markdown.Markdown, corpus *model.Corpus, stats model.CorpusStats) {
	md.H2("Clues per Letter")
	md.PlainText("")

	letters := corpus.Letters()
	if len(letters) == 0 {
		md.PlainText("No letters were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(letters))
	for i, letter := range letters {
		answers := 0
		for _, r := range corpus.Clues(letter) {
			answers += r.AnswersByLength.Count()
		}
		rows[i] = []string{
			letter,
			strconv.Itoa(stats.CluesPerLetter[letter]),
			strconv.Itoa(answers),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Letter", "Clues", "Answers"},
		Rows:   rows,
	})
	md.PlainText("")

	if stats.Clues > 0 {
		w.writePieChart(md, letters, stats)
	}
}

// writePieChart writes a mermaid pie chart of clues per letter.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, letters []string, stats model.CorpusStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Clue Distribution"),
		piechart.WithShowData(true),
	)

	for _, letter := range letters {
		if n := stats.CluesPerLetter[letter]; n > 0 {
			chart.LabelAndIntValue(letter, uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeLengths writes the answer length histogram.
func (w *MarkdownWriter) writeLengths(md *markdown.Markdown, stats model.CorpusStats) {
	md.H2("Answer Lengths")
	md.PlainText("")

	lengths := stats.SortedLengths()
	if len(lengths) == 0 {
		md.PlainText("No answers were extracted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(lengths))
	for i, length := range lengths {
		rows[i] = []string{strconv.Itoa(length), strconv.Itoa(stats.AnswersPerLength[length])}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Letters", "Answers"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [cluescrape](https://github.com/nao1215/cluescrape)*")
}
