package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/fightrecords/store"
	"github.com/spf13/cobra"
)

var runsFlags struct {
	limit  int
	format string
}

func init() {
	runsCmd.Flags().IntVar(&runsFlags.limit, "limit", 20, "Maximum number of runs to show (0 for all)")
	runsCmd.Flags().StringVar(&runsFlags.format, "format", "table", "Output format: table or json")
	rootCmd.AddCommand(runsCmd)
}

var runsCmd = &cobra.Command{
	Use:   "runs [--limit <n>] [--format table|json]",
	Short: "Lists past crawl runs.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recordStore, err := store.NewRecordStore(fileConfig.Storage.Records.DSN)
		if err != nil {
			return fmt.Errorf("failed to open record store: %w", err)
		}
		defer recordStore.Close()

		runs, err := recordStore.ListRuns(runsFlags.limit)
		if err != nil {
			return err
		}

		switch runsFlags.format {
		case "json":
			return printRunsJSON(runs)
		case "table":
			printRunsTable(runs)
			return nil
		}
		return fmt.Errorf("invalid format %q (must be table or json)", runsFlags.format)
	},
}

func printRunsTable(runs []store.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	t := newTable(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Mode", "Status", "Started", "Bouts", "Fighters", "Errors"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.RunID.String(),
			run.Mode,
			run.Status,
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Bouts,
			run.Fighters,
			run.Errors,
		})
	}
	t.Render()
}

func printRunsJSON(runs []store.Run) error {
	return writeJSON(os.Stdout, nonNil(runs))
}
