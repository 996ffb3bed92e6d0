// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/thought-capture/internal/format"
	"github.com/jonathan/thought-capture/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRoutingDecision outputs a human-readable summary of the routing decision.
func (p *Printer) PrintRoutingDecision(decision *types.RoutingDecision) {
	if decision == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Tracker:    %s\n", decision.PrimaryTracker))
	sb.WriteString(fmt.Sprintf("Confidence: %s\n", format.FormatConfidence(decision.Confidence)))
	if decision.RequiresReview {
		sb.WriteString("Review:     required\n")
	}
	if decision.OverallReasoning != "" {
		sb.WriteString(fmt.Sprintf("Reasoning:  %s\n", decision.OverallReasoning))
	}

	if len(decision.GeneratedItems) > 0 {
		sb.WriteString("\nItems:\n")
		count := min(len(decision.GeneratedItems), maxItemsToShow)
		for i := 0; i < count; i++ {
			item := decision.GeneratedItems[i]
			sb.WriteString(fmt.Sprintf("  • [%s] %s\n", item.ItemType, item.Content))
		}
		if len(decision.GeneratedItems) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(decision.GeneratedItems)-maxItemsToShow))
		}
	}

	if len(decision.TaskCompletions) > 0 {
		sb.WriteString("\nCompletions:\n")
		for _, tc := range decision.TaskCompletions {
			sb.WriteString(fmt.Sprintf("  ✓ %s (%s)\n", tc.Description, tc.Tracker))
		}
	}

	p.printBox("ROUTING DECISION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCaptureResult outputs what a capture actually wrote.
func (p *Printer) PrintCaptureResult(result *types.CaptureResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.Success {
		sb.WriteString("Status: ok\n")
	} else {
		sb.WriteString("Status: FAILED\n")
	}
	if result.Error != "" {
		sb.WriteString(fmt.Sprintf("Error:  %s\n", result.Error))
	}
	if result.ReviewItemID != "" {
		sb.WriteString(fmt.Sprintf("Queued for review: %s\n", result.ReviewItemID))
	}
	if result.EmergencyTracker != "" {
		sb.WriteString(fmt.Sprintf("Emergency capture into: %s\n", result.EmergencyTracker))
	}

	for _, w := range result.Written {
		sb.WriteString(fmt.Sprintf("→ %s/%s\n", w.Tracker, w.Section))
		sb.WriteString(fmt.Sprintf("  %s\n", w.Line))
	}
	for _, done := range result.CompletedTasks {
		sb.WriteString(fmt.Sprintf("✓ completed: %s\n", done))
	}

	p.printBox("CAPTURE RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReviewItems outputs the items currently needing review.
func (p *Printer) PrintReviewItems(items []*types.ReviewableItem) {
	if len(items) == 0 {
		p.printBox("REVIEW QUEUE", "Nothing needs review.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d item(s) need review:\n\n", len(items)))

	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		item := items[i]
		content := item.Content
		if len(content) > 40 {
			content = content[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s  [%s]\n", item.ID, item.Status))
		sb.WriteString(fmt.Sprintf("  %s\n", content))
		sb.WriteString(fmt.Sprintf("  → %s (%s)\n", item.Tracker, format.FormatConfidence(item.Confidence)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(items)-maxItemsToShow))
	}

	p.printBox("REVIEW QUEUE", sb.String())
}

// PrintTrackerSummary outputs the registered trackers and their routing hints.
func (p *Printer) PrintTrackerSummary(trackers []*types.Tracker) {
	if len(trackers) == 0 {
		p.printBox("TRACKERS", "No trackers registered.")
		return
	}

	var sb strings.Builder
	for i, tr := range trackers {
		sb.WriteString(fmt.Sprintf("#%s  %s (%s)\n", tr.Tag, tr.Name, tr.Context))
		if len(tr.Keywords) > 0 {
			keywords := strings.Join(tr.Keywords, ", ")
			if len(keywords) > 45 {
				keywords = keywords[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  keywords: %s\n", keywords))
		}
		if i < len(trackers)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TRACKERS", strings.TrimSuffix(sb.String(), "\n"))
}
