package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"coverbot/internal/store"
)

var (
	historyLimit int
	historyDB    string
	historyRunID string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past generation runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to show")
	historyCmd.Flags().StringVar(&historyDB, "db", "", "History database path")
	historyCmd.Flags().StringVar(&historyRunID, "run", "", "Show generated files for one run")
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := historyDB
	if path == "" {
		path = cfg.Generation.HistoryPath
	}

	history, err := store.Open(path)
	if err != nil {
		return err
	}
	defer history.Close()

	if historyRunID != "" {
		files, err := history.RunFiles(cmd.Context(), historyRunID)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("no files recorded for run", historyRunID)
			return nil
		}
		for _, f := range files {
			fmt.Printf("%-40s %-40s %6.1f%%\n", f.SourceFile, f.TestFile, f.Coverage)
		}
		return nil
	}

	runs, err := history.Runs(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	fmt.Printf("%-36s  %-20s  %-24s  %-10s  %s\n", "RUN", "CREATED", "MODEL", "FRAMEWORK", "FILES")
	for _, r := range runs {
		fmt.Printf("%-36s  %-20s  %-24s  %-10s  %d\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Model, r.Framework, r.FilesProcessed)
	}
	return nil
}
