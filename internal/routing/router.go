// Package routing consumes the inference collaborator: it asks the LLM to
// classify a captured thought against the registered trackers and returns a
// normalized, schema-validated RoutingDecision.
package routing

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/thought-capture/internal/format"
	"github.com/jonathan/thought-capture/internal/llm"
	"github.com/jonathan/thought-capture/internal/prompts"
	"github.com/jonathan/thought-capture/internal/types"
)

//go:embed routing_decision.schema.json
var decisionSchema string

// Router routes captured thoughts through the LLM.
type Router struct {
	client    llm.Client
	threshold float64
}

// NewRouter creates a Router. threshold is the confidence below which a
// decision is marked as requiring review.
func NewRouter(client llm.Client, threshold float64) *Router {
	return &Router{client: client, threshold: threshold}
}

// Route classifies input against the tracker context map. The LLM response
// is treated as untrusted: it is schema-validated and normalized against the
// closed item-type and priority enums before being returned.
func (r *Router) Route(ctx context.Context, input types.CaptureInput, trackers map[string]types.TrackerContext) (*types.RoutingDecision, error) {
	if len(trackers) == 0 {
		return nil, &ValidationError{Message: "no trackers registered"}
	}

	prompt, err := buildRoutingPrompt(input, trackers)
	if err != nil {
		return nil, err
	}

	responseText, err := r.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate routing decision", Cause: err}
	}

	decision, err := parseDecision(llm.CleanJSONBlock(responseText))
	if err != nil {
		return nil, err
	}

	r.normalize(decision, trackers)
	return decision, nil
}

// buildRoutingPrompt renders the routing prompt template.
func buildRoutingPrompt(input types.CaptureInput, trackers map[string]types.TrackerContext) (string, error) {
	contextJSON, err := marshalTrackerContext(trackers)
	if err != nil {
		return "", &ParseError{Message: "failed to marshal tracker context", Cause: err}
	}

	inputType := input.InputType
	if inputType == "" {
		inputType = "text"
	}

	timestamp := input.Timestamp
	ts := ""
	if !timestamp.IsZero() {
		ts = timestamp.Format(format.TimestampLayout)
	}

	forceClause := ""
	if input.ForceContext != "" {
		forceClause = prompts.Format(prompts.MustGet("routing.json", "force-context-clause"), map[string]string{
			"ForceContext": input.ForceContext,
		})
	}

	template := prompts.MustGet("routing.json", "route-thought")
	return prompts.Format(template, map[string]string{
		"TrackerContext":     contextJSON,
		"InputType":          inputType,
		"Timestamp":          ts,
		"Text":               input.Text,
		"ForceContextClause": forceClause,
	}), nil
}

// marshalTrackerContext renders the context map deterministically, tags
// sorted, so identical stores produce identical prompts.
func marshalTrackerContext(trackers map[string]types.TrackerContext) (string, error) {
	tags := make([]string, 0, len(trackers))
	for tag := range trackers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var sb strings.Builder
	for _, tag := range tags {
		entry, err := json.Marshal(trackers[tag])
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", tag, entry))
	}
	return sb.String(), nil
}

// parseDecision validates the cleaned JSON against the embedded schema and
// unmarshals it.
func parseDecision(jsonText string) (*types.RoutingDecision, error) {
	schemaLoader := gojsonschema.NewStringLoader(decisionSchema)
	documentLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, &ParseError{Message: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, &ValidationError{Field: first.Field(), Message: first.Description()}
	}

	var decision types.RoutingDecision
	if err := json.Unmarshal([]byte(jsonText), &decision); err != nil {
		return nil, &ParseError{Message: "failed to parse routing decision", Cause: err}
	}
	return &decision, nil
}

// normalize clamps and coerces the untrusted decision: confidence into
// [0,1], item types and priorities onto the closed enums, unknown tracker
// tags demoted to the primary tracker, and the review flag recomputed
// against the threshold.
func (r *Router) normalize(decision *types.RoutingDecision, trackers map[string]types.TrackerContext) {
	if decision.Confidence < 0 {
		decision.Confidence = 0
	}
	if decision.Confidence > 1 {
		decision.Confidence = 1
	}

	if _, ok := trackers[decision.PrimaryTracker]; !ok {
		// The model invented a tracker tag; this routing cannot be trusted.
		decision.Confidence = 0
		decision.RequiresReview = true
		decision.PrimaryTracker = firstTag(trackers)
	}

	for i := range decision.GeneratedItems {
		item := &decision.GeneratedItems[i]
		item.ItemType = string(types.NormalizeItemType(item.ItemType))
		item.Priority = string(types.NormalizePriority(item.Priority))
		if _, ok := trackers[item.Tracker]; !ok {
			item.Tracker = decision.PrimaryTracker
		}
	}

	completions := decision.TaskCompletions[:0]
	for _, tc := range decision.TaskCompletions {
		if _, ok := trackers[tc.Tracker]; !ok {
			// A completion against an unknown tracker can never match a line.
			continue
		}
		completions = append(completions, tc)
	}
	decision.TaskCompletions = completions

	if decision.Confidence < r.threshold {
		decision.RequiresReview = true
	}
}

// firstTag returns the lexically first tracker tag, used as a deterministic
// fallback target.
func firstTag(trackers map[string]types.TrackerContext) string {
	tags := make([]string, 0, len(trackers))
	for tag := range trackers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags[0]
}
