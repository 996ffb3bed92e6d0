//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// CaptureInput is a raw piece of text submitted for routing.
type CaptureInput struct {
	Text         string    `json:"text" validate:"required,min=1"`
	InputType    string    `json:"input_type,omitempty"` // "text" (default) or "voice"
	ForceContext string    `json:"force_context,omitempty"`
	Timestamp    time.Time `json:"timestamp,omitempty"`
}

// Validate validates the CaptureInput using the validator.
func (c *CaptureInput) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// RoutedItem is one entry the inference collaborator wants written to a tracker.
type RoutedItem struct {
	Tracker   string `json:"tracker"`
	ItemType  string `json:"item_type"`
	Priority  string `json:"priority,omitempty"`
	Content   string `json:"content"`
	Reasoning string `json:"reasoning,omitempty"`
}

// TaskCompletion is an open action item the inference collaborator believes
// the captured text reports as done.
type TaskCompletion struct {
	Tracker     string `json:"tracker"`
	Description string `json:"description"`
	Reasoning   string `json:"reasoning,omitempty"`
}

// RoutingDecision is the structured output of the inference collaborator.
type RoutingDecision struct {
	PrimaryTracker   string           `json:"primary_tracker"`
	Confidence       float64          `json:"confidence"`
	OverallReasoning string           `json:"overall_reasoning,omitempty"`
	GeneratedItems   []RoutedItem     `json:"generated_items"`
	TaskCompletions  []TaskCompletion `json:"task_completions"`
	RequiresReview   bool             `json:"requires_review"`
}

// WrittenEntry records one formatted line committed to a tracker section.
type WrittenEntry struct {
	Tracker string `json:"tracker"`
	Section string `json:"section"`
	Line    string `json:"line"`
}

// CaptureResult reports the outcome of a capture. On failure the raw text
// and the formatted fallback entry are embedded so input is never silently
// dropped.
type CaptureResult struct {
	Success          bool             `json:"success"`
	RawText          string           `json:"raw_text"`
	Decision         *RoutingDecision `json:"decision,omitempty"`
	Written          []WrittenEntry   `json:"written,omitempty"`
	CompletedTasks   []string         `json:"completed_tasks,omitempty"`
	ReviewItemID     string           `json:"review_item_id,omitempty"`
	EmergencyTracker string           `json:"emergency_tracker,omitempty"`
	FormattedEntry   string           `json:"formatted_entry,omitempty"`
	Error            string           `json:"error,omitempty"`
}
