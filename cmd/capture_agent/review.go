package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/thought-capture/internal/tracker"
	"github.com/jonathan/thought-capture/internal/types"
	"github.com/spf13/cobra"
)

var reviewTrackerFilter string

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "List entries waiting in tracker Review Queue sections",
	Long:  `List the #review entries that low-confidence captures left behind in each tracker's Review Queue section. These are the durable breadcrumbs of captures that need a human decision; resolve them by editing the tracker or through the review endpoints of a running server.`,
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().StringVarP(&reviewTrackerFilter, "tracker", "t", "", "Only show entries from this tracker tag")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := newStoreEngine(context.Background(), cfg)
	if err != nil {
		return err
	}

	total := 0
	for _, tr := range eng.store.Trackers() {
		if reviewTrackerFilter != "" && tr.Tag != reviewTrackerFilter {
			continue
		}
		entries, err := reviewEntries(tr.Path)
		if err != nil {
			return fmt.Errorf("failed to read tracker #%s: %w", tr.Tag, err)
		}
		if len(entries) == 0 {
			continue
		}
		_, _ = fmt.Fprintf(os.Stdout, "#%s (%s)\n", tr.Tag, tr.Name)
		for _, entry := range entries {
			_, _ = fmt.Fprintf(os.Stdout, "  %s\n", entry)
		}
		total += len(entries)
	}

	if total == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No entries waiting for review.")
	} else {
		_, _ = fmt.Fprintf(os.Stdout, "\n%d entries waiting for review.\n", total)
	}
	return nil
}

// reviewEntries returns the unresolved entry lines of a tracker's Review
// Queue section. A missing file or missing section yields no entries.
func reviewEntries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	header, _ := tracker.SectionHeader(tracker.SectionForItem(types.ItemReview))

	var entries []string
	inSection := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == header:
			inSection = true
		case strings.HasPrefix(trimmed, "#"):
			// Any other heading ends the section.
			inSection = false
		case inSection && strings.HasPrefix(trimmed, "- [ ]"):
			entries = append(entries, trimmed)
		}
	}
	return entries, scanner.Err()
}
