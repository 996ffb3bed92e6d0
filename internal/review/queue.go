// Package review implements the in-memory review workflow: a queue of
// captured items whose routing confidence fell below the threshold, with a
// small status state machine. Queue contents are process-lifetime state and
// are not persisted.
package review

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/thought-capture/internal/format"
	"github.com/jonathan/thought-capture/internal/tracker"
	"github.com/jonathan/thought-capture/internal/types"
)

// TrackerWriter is the subset of the tracker store the review workflow
// needs to commit accepted items. Injected so the backing store can be
// swapped without touching the state-machine logic.
type TrackerWriter interface {
	AppendToSection(tag, sectionKey, formattedLine string) bool
}

// Queue owns the reviewable items. All operations are safe for concurrent
// use by the HTTP review surface.
type Queue struct {
	writer    TrackerWriter
	threshold float64

	mu    sync.Mutex
	items map[string]*types.ReviewableItem
	order []string
}

// DefaultThreshold is the confidence below which captures need review.
const DefaultThreshold = 0.7

// NewQueue creates a review queue committing accepted items through writer.
func NewQueue(writer TrackerWriter, threshold float64) *Queue {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Queue{
		writer:    writer,
		threshold: threshold,
		items:     make(map[string]*types.ReviewableItem),
	}
}

// Threshold returns the configured review confidence threshold.
func (q *Queue) Threshold() float64 {
	return q.threshold
}

// FlagItem constructs and stores a new reviewable item. Items below the
// threshold start pending; items flagged despite adequate confidence start
// flagged (the caller decides which bucket applies).
func (q *Queue) FlagItem(content string, confidence float64, trackerTag, section, source string, metadata types.ReviewMetadata) *types.ReviewableItem {
	status := types.ReviewPending
	if confidence >= q.threshold {
		status = types.ReviewFlagged
	}

	item := &types.ReviewableItem{
		ID:         uuid.New().String(),
		Content:    content,
		Confidence: confidence,
		Tracker:    trackerTag,
		Section:    section,
		Source:     source,
		Metadata:   metadata,
		Status:     status,
		CreatedAt:  time.Now(),
	}

	q.mu.Lock()
	q.items[item.ID] = item
	q.order = append(q.order, item.ID)
	q.mu.Unlock()

	return item
}

// ItemsNeedingReview returns all pending and flagged items in insertion
// order, optionally restricted to one tracker tag. Confirmed items are
// excluded.
func (q *Queue) ItemsNeedingReview(trackerFilter string) []*types.ReviewableItem {
	q.mu.Lock()
	defer q.mu.Unlock()

	var out []*types.ReviewableItem
	for _, id := range q.order {
		item, ok := q.items[id]
		if !ok || item.Status == types.ReviewConfirmed {
			continue
		}
		if trackerFilter != "" && item.Tracker != trackerFilter {
			continue
		}
		copied := *item
		out = append(out, &copied)
	}
	return out
}

// StatusCounts summarizes the full in-memory set for dashboards.
func (q *Queue) StatusCounts() types.ReviewStatusCounts {
	q.mu.Lock()
	defer q.mu.Unlock()

	var counts types.ReviewStatusCounts
	for _, item := range q.items {
		switch item.Status {
		case types.ReviewPending:
			counts.Pending++
		case types.ReviewFlagged:
			counts.Flagged++
		case types.ReviewConfirmed:
			counts.Confirmed++
		}
		counts.Total++
	}
	return counts
}

// ProcessAction applies one review action to the item with id. Unknown ids
// and unknown actions return false without side effects.
func (q *Queue) ProcessAction(id string, action types.ReviewAction, edit *types.ReviewEdit) bool {
	q.mu.Lock()
	item, ok := q.items[id]
	if !ok || !types.ValidReviewAction(action) {
		q.mu.Unlock()
		return false
	}

	switch action {
	case types.ActionReject:
		delete(q.items, id)
		q.removeFromOrder(id)
		q.mu.Unlock()
		return true

	case types.ActionEditPriority:
		if edit != nil && edit.Priority != "" {
			item.Metadata.Priority = types.NormalizePriority(edit.Priority)
		}
		q.mu.Unlock()
		return true

	case types.ActionEditTags:
		if edit != nil {
			item.Metadata.Tags = edit.Tags
		}
		q.mu.Unlock()
		return true

	case types.ActionEditType:
		if edit != nil && edit.ItemType != "" {
			item.Metadata.ItemType = types.NormalizeItemType(edit.ItemType)
		}
		q.mu.Unlock()
		return true

	case types.ActionMove:
		if edit != nil {
			if edit.Tracker != "" {
				item.Tracker = edit.Tracker
			}
			if edit.Section != "" && tracker.ValidSection(edit.Section) {
				item.Section = edit.Section
			}
		}
		q.mu.Unlock()
		return true

	case types.ActionAccept:
		// Re-render under the lock snapshot, write outside of it.
		snapshot := *item
		q.mu.Unlock()
		return q.accept(id, snapshot)
	}

	q.mu.Unlock()
	return false
}

// accept re-renders the item's content from its current metadata and writes
// it to the tracker store. Status transitions to confirmed only after a
// successful write.
func (q *Queue) accept(id string, item types.ReviewableItem) bool {
	itemType := item.Metadata.ItemType
	if itemType == "" {
		itemType = types.ItemReview
	}

	section := item.Section
	if !tracker.ValidSection(section) {
		section = tracker.SectionForItem(itemType)
	}

	opts := format.Options{
		Tag:      item.Tracker,
		Priority: item.Metadata.Priority,
	}
	if itemType == types.ItemAction && item.Metadata.Priority != "" {
		opts.IncludePriority = true
	}
	if itemType == types.ItemActivity {
		opts.Timestamp = item.CreatedAt
	}
	if len(item.Metadata.Tags) > 0 {
		opts.ContextTags = item.Metadata.Tags
	}

	line := format.FormatEntry(itemType, item.Content, opts)
	if !q.writer.AppendToSection(item.Tracker, section, line) {
		return false
	}

	q.mu.Lock()
	if stored, ok := q.items[id]; ok {
		stored.Status = types.ReviewConfirmed
	}
	q.mu.Unlock()
	return true
}

// BatchProcess applies each action independently, collecting per-item
// results. One failure never aborts the rest of the batch.
func (q *Queue) BatchProcess(actions []types.ReviewActionRequest) []types.ReviewActionResult {
	results := make([]types.ReviewActionResult, 0, len(actions))
	for _, req := range actions {
		ok := q.ProcessAction(req.ItemID, req.Action, req.Edit)
		result := types.ReviewActionResult{
			ItemID:  req.ItemID,
			Action:  string(req.Action),
			Success: ok,
		}
		if !ok {
			result.Error = fmt.Sprintf("action %q failed for item %s", req.Action, req.ItemID)
		}
		results = append(results, result)
	}
	return results
}

// ClearConfirmed purges all confirmed items, returning the count removed.
// Pending and flagged items are untouched.
func (q *Queue) ClearConfirmed() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := 0
	for id, item := range q.items {
		if item.Status == types.ReviewConfirmed {
			delete(q.items, id)
			q.removeFromOrder(id)
			removed++
		}
	}
	return removed
}

// removeFromOrder drops id from the insertion-order slice. Caller holds the
// lock.
func (q *Queue) removeFromOrder(id string) {
	for i, existing := range q.order {
		if existing == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}
