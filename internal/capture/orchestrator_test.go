package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/thought-capture/internal/review"
	"github.com/jonathan/thought-capture/internal/tracker"
	"github.com/jonathan/thought-capture/internal/types"
)

// fakeStore is an in-memory TrackerStore.
type fakeStore struct {
	trackers   []*types.Tracker
	failWrites bool
	appends    []types.WrittenEntry
	completed  []string
}

func newFakeStore(tags ...string) *fakeStore {
	s := &fakeStore{}
	for _, tag := range tags {
		s.trackers = append(s.trackers, &types.Tracker{Tag: tag, Name: tag, Context: types.ContextBusiness})
	}
	return s
}

func (s *fakeStore) ContextMap() map[string]types.TrackerContext {
	out := make(map[string]types.TrackerContext)
	for _, tr := range s.trackers {
		out[tr.Tag] = types.TrackerContext{FriendlyName: tr.Name, ContextType: string(tr.Context)}
	}
	return out
}

func (s *fakeStore) Trackers() []*types.Tracker { return s.trackers }

func (s *fakeStore) AppendToSection(tag, section, line string) bool {
	if s.failWrites {
		return false
	}
	s.appends = append(s.appends, types.WrittenEntry{Tracker: tag, Section: section, Line: line})
	return true
}

func (s *fakeStore) MarkTaskComplete(tag, desc string) bool {
	if s.failWrites {
		return false
	}
	s.completed = append(s.completed, tag+":"+desc)
	return true
}

// fakeRouter returns a canned decision or error.
type fakeRouter struct {
	decision *types.RoutingDecision
	err      error
}

func (r *fakeRouter) Route(_ context.Context, _ types.CaptureInput, _ map[string]types.TrackerContext) (*types.RoutingDecision, error) {
	return r.decision, r.err
}

func newOrchestrator(store *fakeStore, router Router) (*Orchestrator, *review.Queue) {
	queue := review.NewQueue(store, review.DefaultThreshold)
	return NewOrchestrator(store, queue, router, nil), queue
}

func TestCapture_HighConfidenceCommitsItems(t *testing.T) {
	store := newFakeStore("work")
	router := &fakeRouter{decision: &types.RoutingDecision{
		PrimaryTracker: "work",
		Confidence:     0.9,
		GeneratedItems: []types.RoutedItem{
			{Tracker: "work", ItemType: "action", Priority: "high", Content: "Email Bob"},
			{Tracker: "work", ItemType: "activity", Content: "talked to Bob"},
		},
	}}
	o, _ := newOrchestrator(store, router)

	result := o.Capture(context.Background(), types.CaptureInput{Text: "email bob; talked to him"})

	assert.True(t, result.Success)
	require.Len(t, result.Written, 2)
	assert.Equal(t, tracker.SectionActions, result.Written[0].Section)
	assert.Equal(t, "- [ ] #task Email Bob #work ⏫", result.Written[0].Line)
	assert.Equal(t, tracker.SectionActivity, result.Written[1].Section)
	assert.Contains(t, result.Written[1].Line, "talked to Bob #work")
}

func TestCapture_MediumPriorityHasNoGlyph(t *testing.T) {
	store := newFakeStore("work")
	router := &fakeRouter{decision: &types.RoutingDecision{
		PrimaryTracker: "work",
		Confidence:     0.9,
		GeneratedItems: []types.RoutedItem{
			{Tracker: "work", ItemType: "action", Priority: "medium", Content: "tidy desk"},
		},
	}}
	o, _ := newOrchestrator(store, router)

	result := o.Capture(context.Background(), types.CaptureInput{Text: "tidy desk"})

	require.Len(t, result.Written, 1)
	assert.Equal(t, "- [ ] #task tidy desk #work", result.Written[0].Line)
}

func TestCapture_TaskCompletions(t *testing.T) {
	store := newFakeStore("work")
	router := &fakeRouter{decision: &types.RoutingDecision{
		PrimaryTracker:  "work",
		Confidence:      0.9,
		TaskCompletions: []types.TaskCompletion{{Tracker: "work", Description: "call client"}},
	}}
	o, _ := newOrchestrator(store, router)

	result := o.Capture(context.Background(), types.CaptureInput{Text: "called the client"})

	assert.True(t, result.Success)
	assert.Equal(t, []string{"call client"}, result.CompletedTasks)
	assert.Equal(t, []string{"work:call client"}, store.completed)
}

func TestCapture_RequiresReviewFlagsAndLeavesBreadcrumb(t *testing.T) {
	store := newFakeStore("work")
	router := &fakeRouter{decision: &types.RoutingDecision{
		PrimaryTracker: "work",
		Confidence:     0.4,
		RequiresReview: true,
		GeneratedItems: []types.RoutedItem{{Tracker: "work", ItemType: "someday", Content: "maybe a sauna"}},
	}}
	o, queue := newOrchestrator(store, router)

	result := o.Capture(context.Background(), types.CaptureInput{Text: "thinking about a sauna"})

	assert.True(t, result.Success)
	require.NotEmpty(t, result.ReviewItemID)

	items := queue.ItemsNeedingReview("")
	require.Len(t, items, 1)
	assert.Equal(t, "thinking about a sauna", items[0].Content)
	assert.Equal(t, types.ReviewPending, items[0].Status)
	assert.Equal(t, types.ItemSomeday, items[0].Metadata.ItemType)

	// Durable breadcrumb in the tracker's Review Queue section.
	require.Len(t, store.appends, 1)
	assert.Equal(t, tracker.SectionReview, store.appends[0].Section)
	assert.Contains(t, store.appends[0].Line, "#review thinking about a sauna #work (confidence: 40%)")
}

func TestCapture_InferenceFailureFallsBackToReview(t *testing.T) {
	store := newFakeStore("alpha", "beta")
	router := &fakeRouter{err: errors.New("model unavailable")}
	o, queue := newOrchestrator(store, router)

	result := o.Capture(context.Background(), types.CaptureInput{Text: "important thought"})

	assert.True(t, result.Success)
	assert.Contains(t, result.Error, "model unavailable")

	items := queue.ItemsNeedingReview("")
	require.Len(t, items, 1)
	assert.Equal(t, "important thought", items[0].Content)
	assert.Equal(t, float64(0), items[0].Confidence)
	// First tracker in listing order is the fallback target.
	assert.Equal(t, "alpha", items[0].Tracker)
}

func TestCapture_AllWritesFailingTriggersEmergency(t *testing.T) {
	store := newFakeStore("work")
	store.failWrites = true
	router := &fakeRouter{decision: &types.RoutingDecision{
		PrimaryTracker: "work",
		Confidence:     0.9,
		GeneratedItems: []types.RoutedItem{{Tracker: "work", ItemType: "action", Content: "x"}},
	}}
	o, _ := newOrchestrator(store, router)

	result := o.Capture(context.Background(), types.CaptureInput{Text: "my precious thought"})

	assert.False(t, result.Success)
	// Raw text embedded verbatim in the failure payload.
	assert.Contains(t, result.FormattedEntry, "my precious thought")
	assert.Contains(t, result.FormattedEntry, "EMERGENCY CAPTURE")
	assert.Equal(t, "my precious thought", result.RawText)
	assert.NotEmpty(t, result.Error)
}

func TestCapture_EmergencyTriesTrackersInOrder(t *testing.T) {
	store := newFakeStore("alpha", "beta")
	router := &fakeRouter{err: errors.New("down")}
	// No trackers at all for review routing is simulated by emptying the
	// store after the queue is built.
	o, _ := newOrchestrator(store, router)
	store.trackers = nil

	result := o.Capture(context.Background(), types.CaptureInput{Text: "orphan thought"})

	assert.False(t, result.Success)
	assert.Contains(t, result.FormattedEntry, "orphan thought")
}

func TestCapture_EmergencySucceedsOnLaterTracker(t *testing.T) {
	store := newFakeStore("work")
	router := &fakeRouter{decision: &types.RoutingDecision{
		PrimaryTracker: "work",
		Confidence:     0.9,
		GeneratedItems: []types.RoutedItem{{Tracker: "work", ItemType: "action", Content: "x"}},
	}}
	o, _ := newOrchestrator(store, router)

	// Writes fail during routing, then recover for the emergency append.
	store.failWrites = true
	defer func() { store.failWrites = false }()

	result := o.Capture(context.Background(), types.CaptureInput{Text: "thought"})
	assert.False(t, result.Success)

	store.failWrites = false
	result = o.Capture(context.Background(), types.CaptureInput{Text: "thought"})
	assert.True(t, result.Success)
}

func TestCapture_EmptyTextRejected(t *testing.T) {
	store := newFakeStore("work")
	o, _ := newOrchestrator(store, &fakeRouter{})

	result := o.Capture(context.Background(), types.CaptureInput{Text: ""})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
	assert.Empty(t, store.appends)
}
