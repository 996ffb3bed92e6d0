package main

import (
	"context"

	"github.com/jonathan/thought-capture/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes capture, review, and tracker endpoints. The review queue lives for the lifetime of the server process.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := newEngine(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	srv := server.New(server.Config{Port: servePort}, eng.store, eng.queue, eng.orchestrator)
	return srv.Start()
}
