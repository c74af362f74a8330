package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/cluescrape/internal/model"
)

// createTestCorpus creates a corpus with sample data for testing.
func createTestCorpus() *model.Corpus {
	answers := model.NewAnswersByLength()
	answers.Add(model.NewAnswerRecord("אבא"))
	answers.Add(model.NewAnswerRecord("אמא"))
	answers.Add(model.NewAnswerRecord("שלום עולם"))

	corpus := model.NewCorpus()
	corpus.Set("א", []model.ClueResult{
		{Clue: "הורה", AnswersByLength: answers},
		{Clue: "ריק", AnswersByLength: model.NewAnswersByLength()},
	})
	corpus.Set("ב", nil)
	return corpus
}

// TestJSONWriter tests the corpus file format.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes four space indented UTF-8", func(t *testing.T) {
		t.Parallel()

		answers := model.NewAnswersByLength()
		answers.Add(model.NewAnswerRecord("אבא"))
		corpus := model.NewCorpus()
		corpus.Set("א", []model.ClueResult{{Clue: "<b>&", AnswersByLength: answers}})

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(corpus); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := `{
    "א": [
        {
            "clue": "<b>&",
            "answers_by_length": {
                "3": [
                    {
                        "answer": "אבא",
                        "lengths": [
                            3
                        ],
                        "num_words": 1,
                        "first_letter": "א"
                    }
                ]
            }
        }
    ]
}
`
		if buf.String() != want {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("keeps letter order and empty values", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithCompact()).Write(createTestCorpus()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "\n    ") {
			t.Errorf("expected compact output: %s", output)
		}
		if strings.Index(output, `"א"`) > strings.Index(output, `"ב"`) {
			t.Errorf("expected א before ב: %s", output)
		}
		if !strings.Contains(output, `"ב":[]`) {
			t.Errorf("expected empty list for ב: %s", output)
		}
		if !strings.Contains(output, `"answers_by_length":{}`) {
			t.Errorf("expected empty grouping: %s", output)
		}
		if !strings.Contains(output, `"3":[`) || strings.Index(output, `"3"`) > strings.Index(output, `"8"`) {
			t.Errorf("expected bucket 3 before 8: %s", output)
		}
	})

	t.Run("output decodes back to the same corpus", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestCorpus()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		decoded := model.NewCorpus()
		if err := json.Unmarshal(buf.Bytes(), decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.Stats().Answers != 3 || len(decoded.Letters()) != 2 {
			t.Errorf("unexpected decoded corpus %+v", decoded.Stats())
		}
	})

	t.Run("nil corpus writes an empty object", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "{}" {
			t.Errorf("expected {}, got %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown summary.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	generated := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("writes totals, letters and lengths", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf, WithSource("https://www.note.co.il/abc/"), WithGeneratedAt(generated))
		if _, err := w.Write(createTestCorpus()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Crossword Clue Corpus",
			"https://www.note.co.il/abc/",
			"2025-01-02 03:04:05 UTC",
			"## Clues per Letter",
			"## Answer Lengths",
			"```mermaid",
			"pie",
			"1 clue(s) have no recognizable answer.",
			"cluescrape",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output:\n%s", want, output)
			}
		}
	})

	t.Run("empty corpus has no chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf, WithGeneratedAt(generated)).Write(model.NewCorpus()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "```mermaid") {
			t.Errorf("expected no chart:\n%s", output)
		}
		if !strings.Contains(output, "No letters were crawled.") || !strings.Contains(output, "No answers were extracted.") {
			t.Errorf("expected empty notices:\n%s", output)
		}
	})
}

// TestSimpleWriter tests the terminal summary.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes totals", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestCorpus()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Clues:                 2") || !strings.Contains(output, "Answers:               3") {
			t.Errorf("unexpected summary:\n%s", output)
		}
		if strings.Contains(output, "Clues per letter") {
			t.Errorf("breakdown should need verbose:\n%s", output)
		}
	})

	t.Run("verbose adds breakdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestCorpus()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Clues per letter") || !strings.Contains(output, "Answers per length") {
			t.Errorf("expected breakdown:\n%s", output)
		}
	})
}

// TestWriteFile tests writing a report to disk.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	newJSON := func(w io.Writer) Writer { return NewJSONWriter(w) }

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "out.json")
		if err := WriteFile(path, createTestCorpus(), newJSON); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.Contains(string(data), "הורה") {
			t.Errorf("unexpected content: %s", data)
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out.json")
		if err := os.WriteFile(path, []byte(strings.Repeat("x", 10000)), 0600); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}
		if err := WriteFile(path, model.NewCorpus(), newJSON); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if strings.TrimSpace(string(data)) != "{}" {
			t.Errorf("expected file to be replaced, got %q", data)
		}
	})

	t.Run("fails when the directory cannot be created", func(t *testing.T) {
		t.Parallel()

		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0600); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}
		if err := WriteFile(filepath.Join(blocker, "out.json"), model.NewCorpus(), newJSON); err == nil {
			t.Error("expected error when parent is a file")
		}
	})
}
