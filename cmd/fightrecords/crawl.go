package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pevans/fightrecords/crawl"
	"github.com/pevans/fightrecords/extract"
	"github.com/pevans/fightrecords/fetch"
	"github.com/pevans/fightrecords/records"
	"github.com/pevans/fightrecords/store"
	"github.com/spf13/cobra"
)

var crawlFlags struct {
	mode      string
	db        string
	exportDir string
	jsonl     bool
	startURL  string
}

func init() {
	f := crawlCmd.Flags()
	f.StringVar(&crawlFlags.mode, "mode", "", "most_recent or all (default from config)")
	f.StringVar(&crawlFlags.db, "db", "", "SQLite database to record the run in (default from config)")
	f.StringVar(&crawlFlags.exportDir, "export", "", "Also write JSON files to this directory")
	f.BoolVar(&crawlFlags.jsonl, "jsonl", false, "Also print records to stdout as JSON lines")
	f.StringVar(&crawlFlags.startURL, "start-url", "", "Listing page to start from")
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [--mode most_recent|all] [--db <path>] [--export <dir>] [--jsonl]",
	Short: "Crawls Tapology and stores bout and fighter records.",
	Args:  cobra.NoArgs,
	RunE:  runCrawl,
}

func runCrawl(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := fileConfig

	if crawlFlags.mode != "" {
		cfg.Crawl.Mode = crawlFlags.mode
	}
	if crawlFlags.db != "" {
		cfg.Storage.Records.DSN = crawlFlags.db
	}
	if crawlFlags.exportDir != "" {
		cfg.Storage.Export.Dir = crawlFlags.exportDir
	}
	if crawlFlags.startURL != "" {
		cfg.Crawl.StartURL = crawlFlags.startURL
	}

	mode, err := extract.ParseMode(cfg.Crawl.Mode)
	if err != nil {
		return err
	}
	extractor, err := extract.NewExtractor(mode, &cfg.Selectors)
	if err != nil {
		return err
	}
	fetcher, err := fetch.NewFetcher(cfg.FetchConfig())
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}

	recordStore, err := store.NewRecordStore(cfg.Storage.Records.DSN)
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer recordStore.Close()

	sinks := crawl.MultiSink{recordStore}
	if cfg.Storage.Export.Dir != "" {
		feed, err := records.NewFeed(cfg.Storage.Export.Dir)
		if err != nil {
			return fmt.Errorf("failed to open export directory: %w", err)
		}
		sinks = append(sinks, feed)
	}
	summaryOut := io.Writer(os.Stdout)
	if crawlFlags.jsonl {
		sinks = append(sinks, crawl.NewJSONLinesSink(os.Stdout))
		summaryOut = os.Stderr
	}

	crawlCfg := cfg.CrawlerConfig()
	run, err := recordStore.CreateRun(string(mode), crawlCfg.StartURL)
	if err != nil {
		return err
	}

	crawler := crawl.NewCrawler(fetcher, extractor, sinks, crawlCfg)
	result, runErr := crawler.Run(ctx, run.RunID)

	stats := store.RunStats{
		Pages:    result.Pages,
		Bouts:    result.Bouts,
		Fighters: result.Fighters,
		Errors:   result.Errors,
	}
	if err := recordStore.FinishRun(run.RunID, stats, runErr); err != nil {
		slog.ErrorContext(ctx, "failed to record run outcome", "run_id", run.RunID, "error", err)
	}

	printRunSummary(summaryOut, result, runErr)
	return runErr
}

func printRunSummary(w io.Writer, result *crawl.Result, runErr error) {
	status := store.StatusCompleted
	if runErr != nil {
		status = store.StatusAborted
	}

	fmt.Fprintf(w, "Run %s %s in %s\n", result.RunID, status, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  Pages:    %d\n", result.Pages)
	fmt.Fprintf(w, "  Bouts:    %d\n", result.Bouts)
	fmt.Fprintf(w, "  Fighters: %d\n", result.Fighters)
	fmt.Fprintf(w, "  Errors:   %d\n", result.Errors)
}
