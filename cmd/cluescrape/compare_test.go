package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// TestCompareCorpora tests matching clues between two runs.
func TestCompareCorpora(t *testing.T) {
	t.Parallel()

	t.Run("detects added, removed and changed clues", func(t *testing.T) {
		t.Parallel()

		previous := newCorpus("א", "הורה", "אבא", "ברכה", "שלום", "ישן", "")
		current := newCorpus("א", "הורה", "אבא", "ברכה", "שלום עולם", "חדש", "אור")
		current.Set("ב", nil)

		result := compareCorpora(previous, current)

		if result.Added != 1 || result.Removed != 1 || result.Changed != 1 || result.Unchanged != 1 {
			t.Errorf("unexpected totals: %+v", result)
		}
		if len(result.Letters) != 2 {
			t.Fatalf("expected 2 letters, got %d", len(result.Letters))
		}

		diff := result.Letters[0]
		if diff.Letter != "א" {
			t.Errorf("expected first letter א, got %s", diff.Letter)
		}
		if !reflect.DeepEqual(diff.Added, []string{"חדש"}) {
			t.Errorf("unexpected added: %v", diff.Added)
		}
		if !reflect.DeepEqual(diff.Removed, []string{"ישן"}) {
			t.Errorf("unexpected removed: %v", diff.Removed)
		}
		if !reflect.DeepEqual(diff.Changed, []string{"ברכה"}) {
			t.Errorf("unexpected changed: %v", diff.Changed)
		}
	})

	t.Run("letters only in the previous run come last", func(t *testing.T) {
		t.Parallel()

		previous := newCorpus("ג", "גמל", "גמל")
		current := newCorpus("א", "הורה", "אבא")

		result := compareCorpora(previous, current)
		letters := make([]string, 0, len(result.Letters))
		for _, d := range result.Letters {
			letters = append(letters, d.Letter)
		}
		if !reflect.DeepEqual(letters, []string{"א", "ג"}) {
			t.Errorf("unexpected letter order: %v", letters)
		}
		if result.Added != 1 || result.Removed != 1 {
			t.Errorf("unexpected totals: %+v", result)
		}
	})

	t.Run("identical runs have no differences", func(t *testing.T) {
		t.Parallel()

		result := compareCorpora(newCorpus("א", "הורה", "אבא"), newCorpus("א", "הורה", "אבא"))
		if result.Added+result.Removed+result.Changed != 0 || result.Unchanged != 1 {
			t.Errorf("unexpected totals: %+v", result)
		}
	})
}

// TestOutputComparison tests the text and Markdown renderings.
func TestOutputComparison(t *testing.T) {
	t.Parallel()

	result := compareCorpora(
		newCorpus("א", "הורה", "אבא", "ישן", ""),
		newCorpus("א", "הורה", "אמא", "חדש", "אור"),
	)
	result.PreviousID, result.CurrentID = 1, 2

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		outputComparisonText(&buf, result)
		out := buf.String()

		for _, want := range []string{"Run comparison: 1 -> 2", "[+] חדש", "[-] ישן", "[~] הורה"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
		if strings.Contains(out, "No differences.") {
			t.Error("unexpected no-differences line")
		}
	})

	t.Run("text without differences", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		outputComparisonText(&buf, compareCorpora(newCorpus("א", "הורה", "אבא"), newCorpus("א", "הורה", "אבא")))
		if !strings.Contains(buf.String(), "No differences.") {
			t.Errorf("expected no-differences line: %s", buf.String())
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := outputComparisonMarkdown(&buf, result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		for _, want := range []string{"# Run Comparison: 1 → 2", "| Added", "## א", "**added** חדש", "~~ישן~~", "**changed** הורה"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})
}

// TestCompareCmd tests the compare command against a history database.
func TestCompareCmd(t *testing.T) {
	t.Parallel()

	t.Run("compares the latest two runs as JSON", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t,
			newCorpus("א", "הורה", "אבא"),
			newCorpus("א", "הורה", "אבא"),
			newCorpus("א", "הורה", "אבא", "חדש", "אור"),
		)

		out, err := executeRoot(t, "compare", "--db-dir", dbDir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var result RunComparison
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if result.PreviousID != 2 || result.CurrentID != 3 {
			t.Errorf("expected runs 2 and 3, got %d and %d", result.PreviousID, result.CurrentID)
		}
		if result.Added != 1 || result.Unchanged != 1 {
			t.Errorf("unexpected totals: %+v", result)
		}
	})

	t.Run("compares explicit run IDs", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t,
			newCorpus("א", "הורה", "אבא", "ישן", ""),
			newCorpus("א", "הורה", "אבא"),
		)

		out, err := executeRoot(t, "compare", "--db-dir", dbDir, "1", "2")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "[-] ישן") {
			t.Errorf("unexpected output: %s", out)
		}
	})

	tests := []struct {
		name string
		args func(dbDir string) []string
	}{
		{name: "one argument", args: func(dbDir string) []string { return []string{"compare", "--db-dir", dbDir, "1"} }},
		{name: "invalid ID", args: func(dbDir string) []string { return []string{"compare", "--db-dir", dbDir, "x", "2"} }},
		{name: "unknown ID", args: func(dbDir string) []string { return []string{"compare", "--db-dir", dbDir, "1", "9"} }},
		{name: "json and markdown", args: func(dbDir string) []string { return []string{"compare", "--db-dir", dbDir, "-j", "-m"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dbDir := seedHistory(t, newCorpus("א", "הורה", "אבא"), newCorpus("א", "הורה", "אמא"))
			if _, err := executeRoot(t, tt.args(dbDir)...); err == nil {
				t.Error("expected an error")
			}
		})
	}

	t.Run("needs two runs", func(t *testing.T) {
		t.Parallel()

		dbDir := seedHistory(t, newCorpus("א", "הורה", "אבא"))
		if _, err := executeRoot(t, "compare", "--db-dir", dbDir); err == nil {
			t.Error("expected an error with a single run")
		}
	})

	t.Run("missing database", func(t *testing.T) {
		t.Parallel()

		if _, err := executeRoot(t, "compare", "--db-dir", filepath.Join(t.TempDir(), "none")); err == nil {
			t.Error("expected an error without a database")
		}
	})
}

