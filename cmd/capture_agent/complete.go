package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var completeTracker string

var completeCmd = &cobra.Command{
	Use:   "complete [description...]",
	Short: "Mark an open task complete",
	Long:  `Find the first open task in a tracker whose text contains the given description (case-insensitive) and mark it complete with today's date. Already-completed tasks are never matched.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runComplete,
}

func init() {
	completeCmd.Flags().StringVarP(&completeTracker, "tracker", "t", "", "Tracker tag to search (required)")
	if err := completeCmd.MarkFlagRequired("tracker"); err != nil {
		panic(fmt.Sprintf("failed to mark tracker flag as required: %v", err))
	}
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := newStoreEngine(context.Background(), cfg)
	if err != nil {
		return err
	}

	description := strings.TrimSpace(strings.Join(args, " "))
	if !eng.store.MarkTaskComplete(completeTracker, description) {
		return fmt.Errorf("no open task matching %q found in #%s", description, completeTracker)
	}

	_, _ = fmt.Fprintf(os.Stdout, "Marked task complete in #%s: %s\n", completeTracker, description)
	return nil
}
