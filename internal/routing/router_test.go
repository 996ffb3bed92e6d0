package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/thought-capture/internal/llm"
	"github.com/jonathan/thought-capture/internal/types"
)

// stubClient returns a canned response or error.
type stubClient struct {
	response string
	err      error
	prompt   string
}

func (s *stubClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func (s *stubClient) Close() error { return nil }

func testTrackers() map[string]types.TrackerContext {
	return map[string]types.TrackerContext{
		"work": {FriendlyName: "Work Projects", ContextType: "business"},
		"home": {FriendlyName: "Household", ContextType: "personal"},
	}
}

func TestRoute_ValidDecision(t *testing.T) {
	client := &stubClient{response: `{
		"primary_tracker": "work",
		"confidence": 0.91,
		"overall_reasoning": "clearly a work task",
		"generated_items": [
			{"tracker": "work", "item_type": "action", "priority": "high", "content": "Email Bob"}
		],
		"task_completions": [],
		"requires_review": false
	}`}
	router := NewRouter(client, 0.7)

	decision, err := router.Route(context.Background(), types.CaptureInput{Text: "email bob"}, testTrackers())

	require.NoError(t, err)
	assert.Equal(t, "work", decision.PrimaryTracker)
	assert.InDelta(t, 0.91, decision.Confidence, 0.001)
	assert.False(t, decision.RequiresReview)
	require.Len(t, decision.GeneratedItems, 1)
	assert.Equal(t, "action", decision.GeneratedItems[0].ItemType)
}

func TestRoute_LowConfidenceRequiresReview(t *testing.T) {
	client := &stubClient{response: `{"primary_tracker": "work", "confidence": 0.4}`}
	router := NewRouter(client, 0.7)

	decision, err := router.Route(context.Background(), types.CaptureInput{Text: "hm"}, testTrackers())

	require.NoError(t, err)
	assert.True(t, decision.RequiresReview)
}

func TestRoute_NormalizesLooseEnums(t *testing.T) {
	client := &stubClient{response: `{
		"primary_tracker": "work",
		"confidence": 0.9,
		"generated_items": [
			{"tracker": "work", "item_type": "TODO", "priority": "URGENT", "content": "x"},
			{"tracker": "work", "item_type": "weird", "priority": "", "content": "y"}
		]
	}`}
	router := NewRouter(client, 0.7)

	decision, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, testTrackers())

	require.NoError(t, err)
	assert.Equal(t, "action", decision.GeneratedItems[0].ItemType)
	assert.Equal(t, "highest", decision.GeneratedItems[0].Priority)
	// Unknown types fall back to review, unknown priorities to medium.
	assert.Equal(t, "review", decision.GeneratedItems[1].ItemType)
	assert.Equal(t, "medium", decision.GeneratedItems[1].Priority)
}

func TestRoute_UnknownPrimaryTrackerDemoted(t *testing.T) {
	client := &stubClient{response: `{"primary_tracker": "invented", "confidence": 0.95}`}
	router := NewRouter(client, 0.7)

	decision, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, testTrackers())

	require.NoError(t, err)
	assert.True(t, decision.RequiresReview)
	assert.Equal(t, float64(0), decision.Confidence)
	assert.Equal(t, "home", decision.PrimaryTracker)
}

func TestRoute_UnknownItemTrackerFallsBackToPrimary(t *testing.T) {
	client := &stubClient{response: `{
		"primary_tracker": "work",
		"confidence": 0.9,
		"generated_items": [{"tracker": "invented", "content": "x"}],
		"task_completions": [{"tracker": "invented", "description": "y"}]
	}`}
	router := NewRouter(client, 0.7)

	decision, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, testTrackers())

	require.NoError(t, err)
	assert.Equal(t, "work", decision.GeneratedItems[0].Tracker)
	assert.Empty(t, decision.TaskCompletions)
}

func TestRoute_ConfidenceClamped(t *testing.T) {
	client := &stubClient{response: `{"primary_tracker": "work", "confidence": 3.5}`}
	router := NewRouter(client, 0.7)

	decision, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, testTrackers())

	require.NoError(t, err)
	assert.Equal(t, float64(1), decision.Confidence)
}

func TestRoute_FencedResponseAccepted(t *testing.T) {
	client := &stubClient{response: "```json\n{\"primary_tracker\": \"work\", \"confidence\": 0.8}\n```"}
	router := NewRouter(client, 0.7)

	decision, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, testTrackers())

	require.NoError(t, err)
	assert.Equal(t, "work", decision.PrimaryTracker)
}

func TestRoute_SchemaViolation(t *testing.T) {
	client := &stubClient{response: `{"confidence": 0.8}`}
	router := NewRouter(client, 0.7)

	_, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, testTrackers())

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestRoute_MalformedJSON(t *testing.T) {
	client := &stubClient{response: "not json at all"}
	router := NewRouter(client, 0.7)

	_, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, testTrackers())

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestRoute_APIError(t *testing.T) {
	client := &stubClient{err: errors.New("quota exceeded")}
	router := NewRouter(client, 0.7)

	_, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, testTrackers())

	var ae *APICallError
	require.ErrorAs(t, err, &ae)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRoute_NoTrackers(t *testing.T) {
	router := NewRouter(&stubClient{}, 0.7)

	_, err := router.Route(context.Background(), types.CaptureInput{Text: "x"}, nil)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestRoute_PromptCarriesContext(t *testing.T) {
	client := &stubClient{response: `{"primary_tracker": "work", "confidence": 0.9}`}
	router := NewRouter(client, 0.7)

	input := types.CaptureInput{Text: "fix the gutter", ForceContext: "personal"}
	_, err := router.Route(context.Background(), input, testTrackers())

	require.NoError(t, err)
	assert.Contains(t, client.prompt, "fix the gutter")
	assert.Contains(t, client.prompt, "Work Projects")
	assert.Contains(t, client.prompt, `forced the context to "personal"`)
}
