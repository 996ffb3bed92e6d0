package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/thought-capture/internal/capture"
	"github.com/jonathan/thought-capture/internal/config"
	"github.com/jonathan/thought-capture/internal/db"
	"github.com/jonathan/thought-capture/internal/llm"
	"github.com/jonathan/thought-capture/internal/review"
	"github.com/jonathan/thought-capture/internal/routing"
	"github.com/jonathan/thought-capture/internal/tracker"
	"github.com/spf13/cobra"
)

// Shared persistent flag values, resolved against an optional config file.
var (
	flagConfig    string
	flagCrossref  string
	flagThreshold float64
	flagVerbose   bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringVar(&flagCrossref, "crossref", "", "Path to the crossref tracker registry (default: CROSSREF_PATH env)")
	rootCmd.PersistentFlags().Float64Var(&flagThreshold, "review-threshold", 0, "Confidence below which captures are flagged for review (default 0.7)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print detailed routing information")
}

// resolveConfig merges CLI flags over the optional config file and
// environment. Flags that were explicitly set always win.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{
		Crossref:        flagCrossref,
		ReviewThreshold: flagThreshold,
		Verbose:         flagVerbose,
	}

	if flagConfig != "" {
		fileCfg, err := config.LoadConfig(flagConfig)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		if !cmd.Flags().Changed("verbose") {
			cfg.Verbose = fileCfg.Verbose
		}
	} else {
		cfg = cfg.MergeWithDefaults(config.Config{})
	}

	if cfg.Crossref == "" {
		cfg.Crossref = os.Getenv("CROSSREF_PATH")
	}
	if cfg.Crossref == "" {
		return config.Config{}, fmt.Errorf("crossref registry not set (use --crossref, a config file, or CROSSREF_PATH)")
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// engine bundles the wired components behind the CLI commands.
type engine struct {
	cfg          config.Config
	store        *tracker.Store
	queue        *review.Queue
	orchestrator *capture.Orchestrator
	client       llm.Client
	captureLog   *db.DB
}

// newStoreEngine builds only the tracker store, for commands that never
// touch the inference collaborator.
func newStoreEngine(ctx context.Context, cfg config.Config) (*engine, error) {
	store := tracker.NewStore(cfg.Crossref)
	if err := store.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to load trackers: %w", err)
	}
	return &engine{cfg: cfg, store: store}, nil
}

// newEngine builds the full capture pipeline: tracker store, review queue,
// Gemini-backed router, optional capture log, and the orchestrator.
func newEngine(ctx context.Context, cfg config.Config) (*engine, error) {
	eng, err := newStoreEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	eng.client = client

	eng.queue = review.NewQueue(eng.store, cfg.ReviewThreshold)
	router := routing.NewRouter(client, cfg.ReviewThreshold)

	// The capture log is optional; a missing database never blocks capture.
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Printf("capture log unavailable, continuing without it: %v", err)
		} else {
			eng.captureLog = database
		}
	}

	eng.orchestrator = capture.NewOrchestrator(eng.store, eng.queue, router, eng.captureLog)
	return eng, nil
}

func (e *engine) Close() {
	if e.client != nil {
		if err := e.client.Close(); err != nil {
			log.Printf("failed to close LLM client: %v", err)
		}
	}
	if e.captureLog != nil {
		e.captureLog.Close()
	}
}
