package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/fightrecords/records"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	dir    string
	format string
}

func init() {
	exportCmd.PersistentFlags().StringVar(&exportFlags.dir, "dir", "", "Export directory (default from config storage.export.dir)")
	exportCmd.PersistentFlags().StringVar(&exportFlags.format, "format", "table", "Output format: table or json")
	exportCmd.AddCommand(exportBoutsCmd, exportFightersCmd, exportShowCmd)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Reads records from a JSON export directory written by crawl --export.",
}

var exportBoutsCmd = &cobra.Command{
	Use:   "bouts [--dir <dir>] [--format table|json]",
	Short: "Lists exported bouts by event and card position.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := openExport()
		if err != nil {
			return err
		}
		return listExportedBouts(os.Stdout, feed, exportFlags.format)
	},
}

var exportFightersCmd = &cobra.Command{
	Use:   "fighters [--dir <dir>] [--format table|json]",
	Short: "Lists exported fighters.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := openExport()
		if err != nil {
			return err
		}
		return listExportedFighters(os.Stdout, feed, exportFlags.format)
	},
}

var exportShowCmd = &cobra.Command{
	Use:   "show <bout|fighter> <id>",
	Short: "Prints one exported record as JSON.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		feed, err := openExport()
		if err != nil {
			return err
		}
		return showExported(os.Stdout, feed, records.Kind(args[0]), args[1])
	},
}

var errNoExportDir = errors.New("no export directory: pass --dir or set storage.export.dir")

func openExport() (*records.Feed, error) {
	dir := exportFlags.dir
	if dir == "" {
		dir = fileConfig.Storage.Export.Dir
	}
	if dir == "" {
		return nil, errNoExportDir
	}

	feed, err := records.NewFeed(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open export directory: %w", err)
	}
	return feed, nil
}

func listExportedBouts(w io.Writer, feed *records.Feed, format string) error {
	result, err := feed.ListBouts()
	if err != nil {
		return err
	}
	logReadErrors(result.Errors)

	switch format {
	case "json":
		return writeJSON(w, nonNil(result.Bouts))
	case "table":
		t := newTable(w)
		t.AppendHeader(table.Row{"Bout", "Event", "#", "Card", "Fighter 1", "Fighter 2"})
		for _, b := range result.Bouts {
			t.AppendRow(table.Row{b.BoutID, b.EventID, b.BoutOrdinal, b.CardType, b.Fighter1ID, b.Fighter2ID})
		}
		t.AppendFooter(table.Row{"", "", "", "", "Total", len(result.Bouts)})
		t.Render()
		return nil
	}
	return fmt.Errorf("invalid format %q (must be table or json)", format)
}

func listExportedFighters(w io.Writer, feed *records.Feed, format string) error {
	result, err := feed.ListFighters()
	if err != nil {
		return err
	}
	logReadErrors(result.Errors)

	switch format {
	case "json":
		return writeJSON(w, nonNil(result.Fighters))
	case "table":
		t := newTable(w)
		t.AppendHeader(table.Row{"Fighter", "Name", "Nationality", "Born"})
		for _, f := range result.Fighters {
			t.AppendRow(table.Row{f.FighterID, orDash(f.FighterName), orDash(f.Nationality), orDash(f.DateOfBirth)})
		}
		t.AppendFooter(table.Row{"", "", "Total", len(result.Fighters)})
		t.Render()
		return nil
	}
	return fmt.Errorf("invalid format %q (must be table or json)", format)
}

func showExported(w io.Writer, feed *records.Feed, kind records.Kind, id string) error {
	var (
		record any
		found  bool
	)
	switch kind {
	case records.KindBout:
		bout, err := feed.GetBout(id)
		if err != nil {
			return err
		}
		record, found = bout, bout != nil
	case records.KindFighter:
		fighter, err := feed.GetFighter(id)
		if err != nil {
			return err
		}
		record, found = fighter, fighter != nil
	default:
		return fmt.Errorf("invalid record kind %q (must be bout or fighter)", kind)
	}

	if !found {
		return fmt.Errorf("%s not found: %s", kind, id)
	}
	return writeJSON(w, record)
}

// Corrupted files don't stop a listing.
func logReadErrors(errs []records.ReadError) {
	for _, e := range errs {
		slog.Warn("skipping unreadable record file", "file", e.Filename, "error", e.Err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
