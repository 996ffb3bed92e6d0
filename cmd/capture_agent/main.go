// Package main provides the entry point for the thought capture CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "capture_agent",
	Short: "Frictionless thought capture into markdown trackers",
	Long:  "capture_agent routes free-form thoughts into markdown tracker documents: it classifies each capture against your registered trackers, formats it as a dated entry, and inserts it into the right section in chronological order.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
