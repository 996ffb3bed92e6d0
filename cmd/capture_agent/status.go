package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/thought-capture/internal/observability"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registered trackers and pending review counts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := newStoreEngine(context.Background(), cfg)
	if err != nil {
		return err
	}

	trackers := eng.store.Trackers()
	printer := observability.NewPrinter(os.Stdout)
	printer.PrintTrackerSummary(trackers)

	pending := 0
	for _, tr := range trackers {
		entries, err := reviewEntries(tr.Path)
		if err != nil {
			continue
		}
		pending += len(entries)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Pending review entries: %d\n", pending)
	return nil
}
