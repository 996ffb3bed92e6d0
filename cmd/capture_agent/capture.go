package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonathan/thought-capture/internal/observability"
	"github.com/jonathan/thought-capture/internal/types"
	"github.com/spf13/cobra"
)

var (
	captureForceContext string
	captureInputType    string
)

var captureCmd = &cobra.Command{
	Use:   "capture [text...]",
	Short: "Route a thought into the right tracker",
	Long:  `Classify a free-form thought against the registered trackers and insert it as a formatted, dated entry. Low-confidence routings are flagged for review instead of being silently committed; if everything fails, the raw text is preserved in an emergency entry so no thought is ever lost.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureForceContext, "force-context", "", "Context type to prefer when routing (business, personal, project, system)")
	captureCmd.Flags().StringVar(&captureInputType, "input-type", "text", "Input channel: text or voice")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if captureForceContext == "" {
		captureForceContext = cfg.ForceContext
	}

	ctx := context.Background()
	eng, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer eng.Close()

	input := types.CaptureInput{
		Text:         strings.TrimSpace(strings.Join(args, " ")),
		InputType:    captureInputType,
		ForceContext: captureForceContext,
		Timestamp:    time.Now(),
	}
	if input.Text == "" {
		return fmt.Errorf("capture text is empty")
	}

	result := eng.orchestrator.Capture(ctx, input)

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose && result.Decision != nil {
		printer.PrintRoutingDecision(result.Decision)
	}
	printer.PrintCaptureResult(&result)

	if !result.Success {
		return fmt.Errorf("capture failed: %s (raw text preserved above)", result.Error)
	}
	return nil
}
