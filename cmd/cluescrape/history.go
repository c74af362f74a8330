package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/cluescrape/internal/config"
	"github.com/nao1215/cluescrape/internal/database"
	"github.com/nao1215/cluescrape/internal/model"
	"github.com/nao1215/cluescrape/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, export or delete stored runs",
		Long: `History works with runs stored by 'cluescrape scrape --save'.

Without flags it lists every stored run, newest first. A stored corpus
can be written out again in the same JSON format as a fresh scrape.

Examples:
  # List stored runs
  cluescrape history

  # Export run 3 to a file
  cluescrape history --export 3 -o old.json

  # Export the newest run with a Markdown summary
  cluescrape history --latest -o latest.json -m latest.md

  # Delete run 3
  cluescrape history --delete 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("export", "e", 0,
		"Export the run with this ID (use without flags to see IDs)")
	cmd.Flags().BoolP("latest", "l", false,
		"Export the most recent run")
	cmd.Flags().Int64("delete", 0,
		"Delete the run with this ID")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"JSON output file for --export and --latest")
	cmd.Flags().StringP("markdown", "m", "",
		"Also write a Markdown summary of the exported run")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	cmd.MarkFlagsMutuallyExclusive("export", "latest", "delete")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	exportID, err := flags.GetInt64("export")
	if err != nil {
		return err
	}
	latest, err := flags.GetBool("latest")
	if err != nil {
		return err
	}
	deleteID, err := flags.GetInt64("delete")
	if err != nil {
		return err
	}
	output, err := flags.GetString("output")
	if err != nil {
		return err
	}
	markdownFile, err := flags.GetString("markdown")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Reading history never creates the database.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No runs stored yet.")
		fmt.Fprintln(out, "\nUse 'cluescrape scrape --save' to keep a run in the history.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	switch {
	case deleteID != 0:
		if err := db.DeleteRun(ctx, deleteID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Run %d deleted.\n", deleteID)
		return nil
	case exportID != 0:
		corpus, err := db.GetRun(ctx, exportID)
		if err != nil {
			return err
		}
		return exportRun(out, exportID, corpus, output, markdownFile)
	case latest:
		id, corpus, err := db.GetLatestRun(ctx)
		if errors.Is(err, database.ErrRunNotFound) {
			return errors.New("no runs stored yet")
		}
		if err != nil {
			return err
		}
		return exportRun(out, id, corpus, output, markdownFile)
	default:
		return listRuns(ctx, db, out)
	}
}

// listRuns prints a table of stored runs.
func listRuns(ctx context.Context, db *database.HistoryDB, out io.Writer) error {
	runs, err := db.ListRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored yet.")
		fmt.Fprintln(out, "\nUse 'cluescrape scrape --save' to keep a run in the history.")
		return nil
	}

	fmt.Fprintf(out, "Stored runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-7s  %-7s  %-8s  %s\n", "ID", "Date", "Letters", "Clues", "Answers", "Base URL")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 80))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-7d  %-7d  %-8d  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			len(run.Letters),
			run.Clues,
			run.Answers,
			run.BaseURL,
		)
	}

	fmt.Fprintln(out, "\nUse 'cluescrape history --export <id>' to write a run to a file.")
	fmt.Fprintln(out, "Use 'cluescrape compare' to compare the latest two runs.")

	return nil
}

// exportRun writes a stored corpus like a fresh scrape would.
func exportRun(out io.Writer, id int64, corpus *model.Corpus, output, markdownFile string) error {
	if err := report.WriteFile(output, corpus, func(w io.Writer) report.Writer {
		return report.NewJSONWriter(w)
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Run %d exported to %s.\n", id, output)

	if markdownFile != "" {
		if err := report.WriteFile(markdownFile, corpus, func(w io.Writer) report.Writer {
			return report.NewMarkdownWriter(w)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary saved to %s.\n", markdownFile)
	}

	return nil
}
