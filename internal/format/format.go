// Package format provides pure rendering and validation of canonical tracker
// entry lines. No I/O happens here.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jonathan/thought-capture/internal/types"
)

// Entry prefixes and type-marker tokens.
const (
	PrefixOpen   = "- [ ]"
	PrefixDone   = "- [x]"
	PrefixBullet = "-"

	MarkerTask    = "#task"
	MarkerSomeday = "#someday"
	MarkerReview  = "#review"
)

// Date and timestamp layouts. Timestamps are minute precision, local time.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04"
)

// Date tokens embedded in entry lines.
const (
	DueToken        = "📅"
	CompletionToken = "✅"
)

// priorityGlyphs maps priorities to their entry glyphs.
var priorityGlyphs = map[types.Priority]string{
	types.PriorityHighest: "🔺",
	types.PriorityHigh:    "⏫",
	types.PriorityMedium:  "🔼",
	types.PriorityLow:     "🔽",
}

// Options carries the optional fields of a formatted entry.
type Options struct {
	Tag               string
	ContextTags       []string
	Priority          types.Priority
	IncludePriority   bool
	DueDate           time.Time
	CompletionDate    time.Time
	Timestamp         time.Time
	Confidence        float64
	IncludeConfidence bool
}

// FormatEntry renders a semantic item into exactly one canonical text line.
// Field order is fixed: prefix, description, #tag, @context tags, priority
// glyph, then date token. Output is deterministic for identical arguments.
func FormatEntry(itemType types.ItemType, description string, opts Options) string {
	var sb strings.Builder

	switch itemType {
	case types.ItemAction:
		sb.WriteString(PrefixOpen)
		sb.WriteString(" ")
		sb.WriteString(MarkerTask)
	case types.ItemSomeday:
		sb.WriteString(PrefixOpen)
		sb.WriteString(" ")
		sb.WriteString(MarkerSomeday)
	case types.ItemReview:
		sb.WriteString(PrefixOpen)
		sb.WriteString(" ")
		sb.WriteString(MarkerReview)
	case types.ItemActivity:
		sb.WriteString(PrefixBullet)
		if !opts.Timestamp.IsZero() {
			sb.WriteString(" ")
			sb.WriteString(opts.Timestamp.Format(TimestampLayout))
		}
	default:
		sb.WriteString(PrefixBullet)
	}

	sb.WriteString(" ")
	sb.WriteString(strings.TrimSpace(description))

	if opts.Tag != "" {
		sb.WriteString(" #")
		sb.WriteString(strings.TrimPrefix(opts.Tag, "#"))
	}

	for _, ctx := range opts.ContextTags {
		if ctx == "" {
			continue
		}
		sb.WriteString(" @")
		sb.WriteString(strings.TrimPrefix(ctx, "@"))
	}

	if opts.IncludePriority {
		if glyph, ok := priorityGlyphs[opts.Priority]; ok {
			sb.WriteString(" ")
			sb.WriteString(glyph)
		}
	}

	if !opts.DueDate.IsZero() {
		sb.WriteString(fmt.Sprintf(" %s %s", DueToken, opts.DueDate.Format(DateLayout)))
	}
	if !opts.CompletionDate.IsZero() {
		sb.WriteString(fmt.Sprintf(" %s %s", CompletionToken, opts.CompletionDate.Format(DateLayout)))
	}

	if opts.IncludeConfidence {
		sb.WriteString(fmt.Sprintf(" (confidence: %s)", FormatConfidence(opts.Confidence)))
	}

	return sb.String()
}

// FormatConfidence renders a [0,1] confidence as a rounded integer percentage.
func FormatConfidence(confidence float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(confidence*100)))
}

// ValidationResult reports whether a line conforms to an expected entry type.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues,omitempty"`
}

// ValidateEntryFormat checks that line has the required prefix and marker
// tokens for the expected item type. It never fails hard; problems are
// returned as human-readable issues.
func ValidateEntryFormat(line string, itemType types.ItemType) ValidationResult {
	var issues []string
	trimmed := strings.TrimSpace(line)

	if trimmed == "" {
		return ValidationResult{Issues: []string{"line is empty"}}
	}

	hasCheckbox := strings.HasPrefix(trimmed, PrefixOpen) || strings.HasPrefix(trimmed, PrefixDone)

	switch itemType {
	case types.ItemAction:
		if !hasCheckbox {
			issues = append(issues, "missing checkbox prefix '- [ ]' or '- [x]'")
		}
		if !HasTag(trimmed, "task") {
			issues = append(issues, "missing #task marker")
		}
	case types.ItemSomeday:
		if !hasCheckbox {
			issues = append(issues, "missing checkbox prefix '- [ ]' or '- [x]'")
		}
		if !HasTag(trimmed, "someday") {
			issues = append(issues, "missing #someday marker")
		}
	case types.ItemReview:
		if !hasCheckbox {
			issues = append(issues, "missing checkbox prefix '- [ ]' or '- [x]'")
		}
		if !HasTag(trimmed, "review") {
			issues = append(issues, "missing #review marker")
		}
	case types.ItemActivity, types.ItemReference:
		if !strings.HasPrefix(trimmed, PrefixBullet+" ") {
			issues = append(issues, "missing '- ' bullet prefix")
		}
	default:
		issues = append(issues, fmt.Sprintf("unknown item type %q", itemType))
	}

	return ValidationResult{IsValid: len(issues) == 0, Issues: issues}
}
