package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/thought-capture/internal/tracker"
	"github.com/jonathan/thought-capture/internal/types"
)

// fakeWriter records appended lines and can be told to fail.
type fakeWriter struct {
	fail    bool
	appends []struct{ tag, section, line string }
}

func (f *fakeWriter) AppendToSection(tag, section, line string) bool {
	if f.fail {
		return false
	}
	f.appends = append(f.appends, struct{ tag, section, line string }{tag, section, line})
	return true
}

func newTestQueue() (*Queue, *fakeWriter) {
	w := &fakeWriter{}
	return NewQueue(w, 0.7), w
}

func TestFlagItem_LowConfidenceStartsPending(t *testing.T) {
	q, _ := newTestQueue()

	item := q.FlagItem("unclear thought", 0.4, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})

	require.NotNil(t, item)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, types.ReviewPending, item.Status)
	assert.False(t, item.CreatedAt.IsZero())
}

func TestFlagItem_AdequateConfidenceStartsFlagged(t *testing.T) {
	q, _ := newTestQueue()

	item := q.FlagItem("explicitly flagged", 0.9, "work", tracker.SectionReview, "manual", types.ReviewMetadata{})

	assert.Equal(t, types.ReviewFlagged, item.Status)
}

func TestItemsNeedingReview_ExcludesConfirmed(t *testing.T) {
	q, _ := newTestQueue()
	first := q.FlagItem("one", 0.3, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})
	q.FlagItem("two", 0.3, "home", tracker.SectionReview, "capture", types.ReviewMetadata{})

	require.True(t, q.ProcessAction(first.ID, types.ActionAccept, nil))

	items := q.ItemsNeedingReview("")
	require.Len(t, items, 1)
	assert.Equal(t, "two", items[0].Content)
}

func TestItemsNeedingReview_TrackerFilter(t *testing.T) {
	q, _ := newTestQueue()
	q.FlagItem("one", 0.3, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})
	q.FlagItem("two", 0.3, "home", tracker.SectionReview, "capture", types.ReviewMetadata{})

	items := q.ItemsNeedingReview("home")

	require.Len(t, items, 1)
	assert.Equal(t, "home", items[0].Tracker)
}

func TestItemsNeedingReview_InsertionOrder(t *testing.T) {
	q, _ := newTestQueue()
	q.FlagItem("first", 0.3, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})
	q.FlagItem("second", 0.3, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})

	items := q.ItemsNeedingReview("")

	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Content)
	assert.Equal(t, "second", items[1].Content)
}

func TestProcessAction_RejectRemovesItem(t *testing.T) {
	q, w := newTestQueue()
	item := q.FlagItem("noise", 0.2, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})

	require.True(t, q.ProcessAction(item.ID, types.ActionReject, nil))

	assert.Empty(t, q.ItemsNeedingReview(""))
	assert.Empty(t, w.appends)
	assert.Equal(t, 0, q.StatusCounts().Total)
}

func TestProcessAction_AcceptWritesAndConfirms(t *testing.T) {
	q, w := newTestQueue()
	item := q.FlagItem("Email Bob", 0.5, "work", "", "capture", types.ReviewMetadata{
		ItemType: types.ItemAction,
		Priority: types.PriorityHigh,
	})

	require.True(t, q.ProcessAction(item.ID, types.ActionAccept, nil))

	require.Len(t, w.appends, 1)
	assert.Equal(t, "work", w.appends[0].tag)
	assert.Equal(t, tracker.SectionActions, w.appends[0].section)
	assert.Equal(t, "- [ ] #task Email Bob #work ⏫", w.appends[0].line)

	counts := q.StatusCounts()
	assert.Equal(t, 1, counts.Confirmed)
	assert.Equal(t, 0, counts.Pending)
}

func TestProcessAction_AcceptFailedWriteKeepsStatus(t *testing.T) {
	q, w := newTestQueue()
	w.fail = true
	item := q.FlagItem("Email Bob", 0.5, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})

	assert.False(t, q.ProcessAction(item.ID, types.ActionAccept, nil))

	items := q.ItemsNeedingReview("")
	require.Len(t, items, 1)
	assert.Equal(t, types.ReviewPending, items[0].Status)
}

func TestProcessAction_EditsMutateMetadataOnly(t *testing.T) {
	q, w := newTestQueue()
	item := q.FlagItem("thought", 0.4, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})

	require.True(t, q.ProcessAction(item.ID, types.ActionEditPriority, &types.ReviewEdit{Priority: "urgent"}))
	require.True(t, q.ProcessAction(item.ID, types.ActionEditType, &types.ReviewEdit{ItemType: "todo"}))
	require.True(t, q.ProcessAction(item.ID, types.ActionEditTags, &types.ReviewEdit{Tags: []string{"deep-work"}}))
	require.True(t, q.ProcessAction(item.ID, types.ActionMove, &types.ReviewEdit{Tracker: "home", Section: tracker.SectionActions}))

	items := q.ItemsNeedingReview("")
	require.Len(t, items, 1)
	got := items[0]
	assert.Equal(t, types.PriorityHighest, got.Metadata.Priority)
	assert.Equal(t, types.ItemAction, got.Metadata.ItemType)
	assert.Equal(t, []string{"deep-work"}, got.Metadata.Tags)
	assert.Equal(t, "home", got.Tracker)
	assert.Equal(t, tracker.SectionActions, got.Section)
	// No disk write until accept.
	assert.Empty(t, w.appends)
	assert.Equal(t, types.ReviewPending, got.Status)
}

func TestProcessAction_MoveRejectsUnknownSection(t *testing.T) {
	q, _ := newTestQueue()
	item := q.FlagItem("thought", 0.4, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})

	require.True(t, q.ProcessAction(item.ID, types.ActionMove, &types.ReviewEdit{Section: "inbox"}))

	items := q.ItemsNeedingReview("")
	assert.Equal(t, tracker.SectionReview, items[0].Section)
}

func TestProcessAction_UnknownItem(t *testing.T) {
	q, _ := newTestQueue()

	assert.False(t, q.ProcessAction("missing", types.ActionAccept, nil))
}

func TestProcessAction_UnknownAction(t *testing.T) {
	q, _ := newTestQueue()
	item := q.FlagItem("thought", 0.4, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})

	assert.False(t, q.ProcessAction(item.ID, types.ReviewAction("explode"), nil))
}

func TestBatchProcess_PartialFailure(t *testing.T) {
	q, _ := newTestQueue()
	item := q.FlagItem("thought", 0.4, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})

	results := q.BatchProcess([]types.ReviewActionRequest{
		{ItemID: item.ID, Action: types.ActionEditPriority, Edit: &types.ReviewEdit{Priority: "low"}},
		{ItemID: "missing", Action: types.ActionReject},
	})

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
}

func TestClearConfirmed(t *testing.T) {
	q, _ := newTestQueue()
	a := q.FlagItem("one", 0.4, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})
	q.FlagItem("two", 0.4, "work", tracker.SectionReview, "capture", types.ReviewMetadata{})
	require.True(t, q.ProcessAction(a.ID, types.ActionAccept, nil))

	removed := q.ClearConfirmed()

	assert.Equal(t, 1, removed)
	counts := q.StatusCounts()
	assert.Equal(t, 0, counts.Confirmed)
	assert.Equal(t, 1, counts.Pending)
}

func TestNewQueue_ThresholdFallback(t *testing.T) {
	q := NewQueue(&fakeWriter{}, 0)

	assert.Equal(t, DefaultThreshold, q.Threshold())
}
