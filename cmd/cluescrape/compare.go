package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/cluescrape/internal/config"
	"github.com/nao1215/cluescrape/internal/database"
	"github.com/nao1215/cluescrape/internal/model"
)

// NewCompareCmd creates the compare command.
// This command compares two runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [previous-id current-id]",
		Short: "Compare two stored runs",
		Long: `Compare shows which clues appeared, disappeared or got different answers
between two runs stored with 'cluescrape scrape --save'.

Clues are matched by letter and title. Without arguments the two most
recent runs are compared.

Examples:
  # Compare the latest two runs
  cluescrape compare

  # Compare run 2 with run 5
  cluescrape compare 2 5

  # Output the comparison as JSON or Markdown
  cluescrape compare --json
  cluescrape compare --markdown`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.New("expected no arguments or exactly two run IDs")
			}
			return nil
		},
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// LetterDiff lists the clue changes of one letter.
type LetterDiff struct {
	Letter    string   `json:"letter"`
	Added     []string `json:"added,omitempty"`
	Removed   []string `json:"removed,omitempty"`
	Changed   []string `json:"changed,omitempty"`
	Unchanged int      `json:"unchanged"`
}

// RunComparison is the difference between two stored runs.
type RunComparison struct {
	PreviousID int64        `json:"previous_id"`
	CurrentID  int64        `json:"current_id"`
	Letters    []LetterDiff `json:"letters"`
	Added      int          `json:"added"`
	Removed    int          `json:"removed"`
	Changed    int          `json:"changed"`
	Unchanged  int          `json:"unchanged"`
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var previousID, currentID int64
	if len(args) == 2 {
		if previousID, err = strconv.ParseInt(args[0], 10, 64); err != nil {
			return fmt.Errorf("invalid run ID %q: %w", args[0], err)
		}
		if currentID, err = strconv.ParseInt(args[1], 10, 64); err != nil {
			return fmt.Errorf("invalid run ID %q: %w", args[1], err)
		}
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		return errors.New("no runs stored yet (use 'cluescrape scrape --save')")
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if len(args) == 0 {
		runs, err := db.ListRuns(ctx)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) < 2 {
			return fmt.Errorf("need at least two stored runs to compare, found %d", len(runs))
		}
		previousID, currentID = runs[1].ID, runs[0].ID
	}

	previous, err := db.GetRun(ctx, previousID)
	if err != nil {
		return err
	}
	current, err := db.GetRun(ctx, currentID)
	if err != nil {
		return err
	}

	result := compareCorpora(previous, current)
	result.PreviousID = previousID
	result.CurrentID = currentID

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		outputComparisonText(out, result)
		return nil
	}
}

// compareCorpora matches clues by letter and title.
// Letters are reported in the current run's order, followed by letters
// only the previous run had.
func compareCorpora(previous, current *model.Corpus) RunComparison {
	letters := current.Letters()
	seen := make(map[string]bool, len(letters))
	for _, l := range letters {
		seen[l] = true
	}
	for _, l := range previous.Letters() {
		if !seen[l] {
			letters = append(letters, l)
		}
	}

	result := RunComparison{Letters: make([]LetterDiff, 0, len(letters))}
	for _, letter := range letters {
		before := answerSignatures(previous.Clues(letter))
		diff := LetterDiff{Letter: letter}

		after := make(map[string]bool)
		for _, r := range current.Clues(letter) {
			if after[r.Clue] {
				continue
			}
			after[r.Clue] = true

			sig, ok := before[r.Clue]
			switch {
			case !ok:
				diff.Added = append(diff.Added, r.Clue)
			case sig != answerSignature(r):
				diff.Changed = append(diff.Changed, r.Clue)
			default:
				diff.Unchanged++
			}
		}
		for _, r := range previous.Clues(letter) {
			if !after[r.Clue] {
				after[r.Clue] = true
				diff.Removed = append(diff.Removed, r.Clue)
			}
		}

		result.Added += len(diff.Added)
		result.Removed += len(diff.Removed)
		result.Changed += len(diff.Changed)
		result.Unchanged += diff.Unchanged
		result.Letters = append(result.Letters, diff)
	}

	return result
}

// answerSignatures maps each clue title to the signature of its first
// occurrence.
func answerSignatures(results []model.ClueResult) map[string]string {
	sigs := make(map[string]string, len(results))
	for _, r := range results {
		if _, ok := sigs[r.Clue]; !ok {
			sigs[r.Clue] = answerSignature(r)
		}
	}
	return sigs
}

// answerSignature lists a clue's answers in grouping order.
func answerSignature(r model.ClueResult) string {
	var sb strings.Builder
	for _, length := range r.AnswersByLength.Lengths() {
		for _, rec := range r.AnswersByLength.Get(length) {
			sb.WriteString(rec.Answer)
			sb.WriteByte(',')
		}
	}
	return sb.String()
}

// outputComparisonText prints a plain-text comparison.
func outputComparisonText(out io.Writer, result RunComparison) {
	fmt.Fprintf(out, "Run comparison: %d -> %d\n\n", result.PreviousID, result.CurrentID)
	fmt.Fprintf(out, "  %-10s  %d\n", "Added", result.Added)
	fmt.Fprintf(out, "  %-10s  %d\n", "Removed", result.Removed)
	fmt.Fprintf(out, "  %-10s  %d\n", "Changed", result.Changed)
	fmt.Fprintf(out, "  %-10s  %d\n", "Unchanged", result.Unchanged)

	for _, diff := range result.Letters {
		if len(diff.Added)+len(diff.Removed)+len(diff.Changed) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n%s:\n", diff.Letter)
		for _, clue := range diff.Added {
			fmt.Fprintf(out, "  [+] %s\n", clue)
		}
		for _, clue := range diff.Removed {
			fmt.Fprintf(out, "  [-] %s\n", clue)
		}
		for _, clue := range diff.Changed {
			fmt.Fprintf(out, "  [~] %s\n", clue)
		}
	}

	if result.Added+result.Removed+result.Changed == 0 {
		fmt.Fprintln(out, "\nNo differences.")
	}
}

// outputComparisonMarkdown prints the comparison as Markdown.
func outputComparisonMarkdown(out io.Writer, result RunComparison) error {
	md := markdown.NewMarkdown(out)

	md.H1(fmt.Sprintf("Run Comparison: %d → %d", result.PreviousID, result.CurrentID))
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Change", "Clues"},
		Rows: [][]string{
			{"Added", strconv.Itoa(result.Added)},
			{"Removed", strconv.Itoa(result.Removed)},
			{"Changed", strconv.Itoa(result.Changed)},
			{"Unchanged", strconv.Itoa(result.Unchanged)},
		},
	})
	md.PlainText("")

	if result.Added+result.Removed+result.Changed == 0 {
		md.Note("No differences between the two runs.")
		return md.Build()
	}

	for _, diff := range result.Letters {
		if len(diff.Added)+len(diff.Removed)+len(diff.Changed) == 0 {
			continue
		}
		md.H2(diff.Letter)
		md.PlainText("")

		items := make([]string, 0, len(diff.Added)+len(diff.Removed)+len(diff.Changed))
		for _, clue := range diff.Added {
			items = append(items, "**added** "+clue)
		}
		for _, clue := range diff.Removed {
			items = append(items, "~~"+clue+"~~")
		}
		for _, clue := range diff.Changed {
			items = append(items, "**changed** "+clue)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return md.Build()
}
