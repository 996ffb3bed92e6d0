// Package capture orchestrates the full capture flow: raw text goes through
// the inference collaborator and lands in the tracker store or the review
// queue. Capture never throws input away: every failure path degrades toward
// an emergency append, and the final failure result still embeds the raw
// text verbatim.
package capture

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/thought-capture/internal/db"
	"github.com/jonathan/thought-capture/internal/format"
	"github.com/jonathan/thought-capture/internal/review"
	"github.com/jonathan/thought-capture/internal/tracker"
	"github.com/jonathan/thought-capture/internal/types"
)

// TrackerStore is the subset of the tracker store the orchestrator needs.
type TrackerStore interface {
	ContextMap() map[string]types.TrackerContext
	Trackers() []*types.Tracker
	AppendToSection(tag, sectionKey, formattedLine string) bool
	MarkTaskComplete(tag, taskDescription string) bool
}

// Router is the inference collaborator interface.
type Router interface {
	Route(ctx context.Context, input types.CaptureInput, trackers map[string]types.TrackerContext) (*types.RoutingDecision, error)
}

// Orchestrator wires the store, the review queue, and the router together.
// The capture log is optional; when present it is written best-effort.
type Orchestrator struct {
	store      TrackerStore
	queue      *review.Queue
	router     Router
	captureLog *db.DB
}

// NewOrchestrator creates an Orchestrator. captureLog may be nil.
func NewOrchestrator(store TrackerStore, queue *review.Queue, router Router, captureLog *db.DB) *Orchestrator {
	return &Orchestrator{
		store:      store,
		queue:      queue,
		router:     router,
		captureLog: captureLog,
	}
}

// Capture routes one raw thought. It returns a result rather than an error:
// degraded success (review-flagged, emergency-captured) is still success,
// and a total failure embeds the raw text in the result.
func (o *Orchestrator) Capture(ctx context.Context, input types.CaptureInput) types.CaptureResult {
	result := types.CaptureResult{RawText: input.Text}

	if err := input.Validate(); err != nil {
		result.Error = err.Error()
		return result
	}
	if input.Timestamp.IsZero() {
		input.Timestamp = time.Now()
	}

	decision, err := o.router.Route(ctx, input, o.store.ContextMap())
	if err != nil {
		// Inference failed: route the raw text into the review workflow at
		// minimum confidence instead of raising.
		log.Printf("capture: inference failed, flagging for review: %v", err)
		return o.flagForReview(ctx, input, &result, 0, o.firstTrackerTag(), types.ReviewMetadata{}, err)
	}
	result.Decision = decision

	if decision.RequiresReview {
		metadata := reviewMetadata(decision)
		return o.flagForReview(ctx, input, &result, decision.Confidence, decision.PrimaryTracker, metadata, nil)
	}

	for _, completion := range decision.TaskCompletions {
		if o.store.MarkTaskComplete(completion.Tracker, completion.Description) {
			result.CompletedTasks = append(result.CompletedTasks, completion.Description)
		} else {
			log.Printf("capture: no open task matching %q in tracker %s", completion.Description, completion.Tracker)
		}
	}

	attempted := 0
	for _, item := range decision.GeneratedItems {
		attempted++
		itemType := types.NormalizeItemType(item.ItemType)
		section := tracker.SectionForItem(itemType)
		line := formatItem(itemType, item, input.Timestamp)
		if o.store.AppendToSection(item.Tracker, section, line) {
			result.Written = append(result.Written, types.WrittenEntry{
				Tracker: item.Tracker,
				Section: section,
				Line:    line,
			})
		}
	}

	if attempted > 0 && len(result.Written) == 0 && len(result.CompletedTasks) == 0 {
		// Every routed write failed; fall back to the emergency path so the
		// text still lands somewhere.
		return o.emergencyCapture(ctx, input, &result, fmt.Errorf("all %d tracker writes failed", attempted))
	}

	result.Success = true
	o.logCapture(ctx, input.Text, decision.PrimaryTracker, decision.Confidence, "committed")
	return result
}

// flagForReview enqueues the raw text for review and leaves a durable
// breadcrumb in the target tracker's Review Queue section so the queue can
// be reconstructed after a restart.
func (o *Orchestrator) flagForReview(ctx context.Context, input types.CaptureInput, result *types.CaptureResult, confidence float64, trackerTag string, metadata types.ReviewMetadata, cause error) types.CaptureResult {
	if trackerTag == "" {
		return o.emergencyCapture(ctx, input, result, fmt.Errorf("no trackers available for review routing"))
	}

	item := o.queue.FlagItem(input.Text, confidence, trackerTag, tracker.SectionReview, "capture", metadata)
	result.ReviewItemID = item.ID

	line := format.FormatEntry(types.ItemReview, input.Text, format.Options{
		Tag:               trackerTag,
		Confidence:        confidence,
		IncludeConfidence: true,
	})
	if o.store.AppendToSection(trackerTag, tracker.SectionReview, line) {
		result.Written = append(result.Written, types.WrittenEntry{
			Tracker: trackerTag,
			Section: tracker.SectionReview,
			Line:    line,
		})
	}

	result.Success = true
	if cause != nil {
		result.Error = cause.Error()
	}
	o.logCapture(ctx, input.Text, trackerTag, confidence, "review")
	return *result
}

// emergencyCapture formats a fallback entry embedding the raw text and the
// error, then tries every tracker in listing order until one write succeeds.
// Complete failure is reported, with the raw text embedded in the result.
func (o *Orchestrator) emergencyCapture(ctx context.Context, input types.CaptureInput, result *types.CaptureResult, cause error) types.CaptureResult {
	description := fmt.Sprintf("EMERGENCY CAPTURE: %s (error: %v)", input.Text, cause)
	line := format.FormatEntry(types.ItemReview, description, format.Options{})
	result.FormattedEntry = line
	result.Error = cause.Error()

	for _, tr := range o.store.Trackers() {
		if o.store.AppendToSection(tr.Tag, tracker.SectionReview, line) {
			result.Success = true
			result.EmergencyTracker = tr.Tag
			o.logCapture(ctx, input.Text, tr.Tag, 0, "emergency")
			return *result
		}
	}

	result.Success = false
	o.logCapture(ctx, input.Text, "", 0, "lost")
	return *result
}

// firstTrackerTag returns the first tracker in listing order, or "".
func (o *Orchestrator) firstTrackerTag() string {
	trackers := o.store.Trackers()
	if len(trackers) == 0 {
		return ""
	}
	return trackers[0].Tag
}

// logCapture writes the best-effort capture log row. Errors are logged and
// swallowed; the side channel never affects the capture outcome.
func (o *Orchestrator) logCapture(ctx context.Context, rawText, trackerTag string, confidence float64, outcome string) {
	if o.captureLog == nil {
		return
	}
	if _, err := o.captureLog.RecordCapture(ctx, rawText, trackerTag, confidence, outcome); err != nil {
		log.Printf("capture log: %v", err)
	}
}

// formatItem renders one routed item into its canonical entry line.
func formatItem(itemType types.ItemType, item types.RoutedItem, timestamp time.Time) string {
	opts := format.Options{Tag: item.Tracker}

	if itemType == types.ItemAction {
		priority := types.NormalizePriority(item.Priority)
		opts.Priority = priority
		// Medium is the unmarked default; only explicit urgency gets a glyph.
		opts.IncludePriority = priority != types.PriorityMedium
	}
	if itemType == types.ItemActivity {
		opts.Timestamp = timestamp
	}

	return format.FormatEntry(itemType, item.Content, opts)
}

// reviewMetadata derives editable review metadata from a routing decision.
func reviewMetadata(decision *types.RoutingDecision) types.ReviewMetadata {
	metadata := types.ReviewMetadata{
		EditableFields: []string{"priority", "tags", "item_type", "tracker", "section"},
	}
	if len(decision.GeneratedItems) > 0 {
		first := decision.GeneratedItems[0]
		metadata.ItemType = types.NormalizeItemType(first.ItemType)
		metadata.Priority = types.NormalizePriority(first.Priority)
	}
	return metadata
}
