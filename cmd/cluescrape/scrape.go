package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/cluescrape/internal/config"
	"github.com/nao1215/cluescrape/internal/crawler"
	"github.com/nao1215/cluescrape/internal/database"
	"github.com/nao1215/cluescrape/internal/fetch"
	cslog "github.com/nao1215/cluescrape/internal/log"
	"github.com/nao1215/cluescrape/internal/model"
	"github.com/nao1215/cluescrape/internal/report"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape all clues and answers into a JSON file",
		Long: `Scrape walks every letter of the clue index page by page, visits each
clue page and collects the answers listed after "פתרון:".

Answers are cut at the first non-Hebrew character and grouped by their
total letter count. The corpus is written to the output file only after
every letter has been crawled; any fetch error aborts the run.

Examples:
  # Scrape everything into crossword_solutions.json
  cluescrape scrape

  # Scrape two letters into a custom file
  cluescrape scrape --letters א,ב -o clues.json

  # Be polite and also write a Markdown summary
  cluescrape scrape --delay 500ms -m summary.md

  # Keep the run in the history database
  cluescrape scrape --save`,
		Args: cobra.NoArgs,
		RunE: runScrapeCmd,
	}

	cmd.Flags().String("base-url", config.DefaultBaseURL,
		"Root URL of the alphabetical clue index")
	cmd.Flags().StringSlice("letters", config.DefaultLetters(),
		"Comma separated letters to crawl, in output order")
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"JSON output file (overwritten, directories are created)")
	cmd.Flags().StringP("markdown", "m", "",
		"Also write a Markdown summary to this file")

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request (0 disables it)")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Pause between requests")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum listing pages per letter (0 means no limit)")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .cluescrape in current or home directory)")

	cmd.Flags().Bool("save", false,
		"Store the finished run in the history database")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")
	cmd.Flags().Bool("summary", false,
		"Print a short corpus summary after saving")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}

	logger := cslog.New(cmd.ErrOrStderr(), cslog.Options{Verbose: cfg.Verbose})
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScrape(ctx, cfg, cmd.OutOrStdout(), summary, logger)
}

// buildConfig creates a Config from defaults, the config file and the
// flags the user actually set, in that order.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// A missing default file is fine; a missing explicit file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("letters") {
		if cfg.Letters, err = flags.GetStringSlice("letters"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("markdown") {
		if cfg.MarkdownFile, err = flags.GetString("markdown"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("delay") {
		if cfg.CrawlDelay, err = flags.GetDuration("delay"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return nil, err
		}
	}

	if cfg.SaveToDB, err = flags.GetBool("save"); err != nil {
		return nil, err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runScrape crawls, then writes the corpus and the optional extras.
// Progress and result lines go to out; diagnostics go to the logger.
func runScrape(ctx context.Context, cfg *config.Config, out io.Writer, summary bool, logger *slog.Logger) error {
	logger.Info("starting scrape",
		"baseURL", cfg.BaseURL,
		"letters", len(cfg.Letters),
		"delay", cfg.CrawlDelay,
		"maxPages", cfg.MaxPages,
		"saveToDB", cfg.SaveToDB,
	)

	fetcher := fetch.New(
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithCookie(cfg.Cookie),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)

	spider := crawler.NewSpider(fetcher,
		crawler.WithBaseURL(cfg.BaseURL),
		crawler.WithLetters(cfg.Letters),
		crawler.WithDelay(cfg.CrawlDelay),
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithProgress(out),
		crawler.WithLogger(logger),
	)

	startTime := time.Now()
	corpus, err := spider.Crawl(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("scrape interrupted, nothing was written: %w", err)
		}
		return fmt.Errorf("scrape failed: %w", err)
	}

	stats := spider.Stats()
	logger.Info("scrape finished",
		"elapsed", time.Since(startTime).Round(time.Millisecond),
		"listingPages", stats.ListingPages,
		"cluePages", stats.CluePages,
		"answers", stats.Answers,
		"parseFailures", stats.ParseFailures,
	)

	if err := report.WriteFile(cfg.OutputFile, corpus, func(w io.Writer) report.Writer {
		return report.NewJSONWriter(w)
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Data saved to %s.\n", cfg.OutputFile)

	if cfg.MarkdownFile != "" {
		if err := report.WriteFile(cfg.MarkdownFile, corpus, func(w io.Writer) report.Writer {
			return report.NewMarkdownWriter(w, report.WithSource(cfg.BaseURL))
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Summary saved to %s.\n", cfg.MarkdownFile)
	}

	if cfg.SaveToDB {
		if err := saveRun(ctx, cfg, corpus, out, logger); err != nil {
			// The JSON file is already on disk; history is best effort.
			logger.Error("failed to save run", "error", err)
		}
	}

	if summary {
		if _, err := report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose)).Write(corpus); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	return nil
}

// saveRun stores the corpus in the history database.
func saveRun(ctx context.Context, cfg *config.Config, corpus *model.Corpus, out io.Writer, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, cfg.BaseURL, corpus)
	if err != nil {
		return err
	}

	logger.Info("run saved to database", "id", id, "path", db.Path())
	fmt.Fprintf(out, "Run %d saved to history.\n", id)
	return nil
}
