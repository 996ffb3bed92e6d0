//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// ReviewStatus is the lifecycle state of a ReviewableItem.
type ReviewStatus string

// Review item states. Transitions: pending -> flagged, pending -> confirmed,
// flagged -> confirmed. Reject removes the item instead of transitioning.
const (
	ReviewPending   ReviewStatus = "pending"
	ReviewFlagged   ReviewStatus = "flagged"
	ReviewConfirmed ReviewStatus = "confirmed"
)

// ReviewAction is one of the operations a reviewer can apply to an item.
type ReviewAction string

// Recognized review actions.
const (
	ActionAccept       ReviewAction = "accept"
	ActionEditPriority ReviewAction = "edit-priority"
	ActionEditTags     ReviewAction = "edit-tags"
	ActionEditType     ReviewAction = "edit-type"
	ActionMove         ReviewAction = "move"
	ActionReject       ReviewAction = "reject"
)

// ValidReviewAction reports whether a is a recognized review action.
func ValidReviewAction(a ReviewAction) bool {
	switch a {
	case ActionAccept, ActionEditPriority, ActionEditTags, ActionEditType, ActionMove, ActionReject:
		return true
	}
	return false
}

// ReviewMetadata carries the editable routing hints attached to a review item.
type ReviewMetadata struct {
	Keywords       []string `json:"keywords,omitempty"`
	Urgency        string   `json:"urgency,omitempty"`
	ItemType       ItemType `json:"item_type,omitempty"`
	Priority       Priority `json:"priority,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	EditableFields []string `json:"editable_fields,omitempty"`
}

// ReviewableItem is an in-memory record of content whose routing confidence
// fell below the threshold. It is process-lifetime state only.
type ReviewableItem struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	Confidence float64        `json:"confidence"`
	Tracker    string         `json:"tracker"`
	Section    string         `json:"section"`
	Source     string         `json:"source"`
	Metadata   ReviewMetadata `json:"metadata"`
	Status     ReviewStatus   `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ReviewEdit carries the optional new values for edit-* and move actions.
type ReviewEdit struct {
	Priority string   `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	ItemType string   `json:"item_type,omitempty"`
	Tracker  string   `json:"tracker,omitempty"`
	Section  string   `json:"section,omitempty"`
}

// ReviewActionRequest is a single action applied to a review item, as
// submitted by a presentation layer.
type ReviewActionRequest struct {
	ItemID string       `json:"item_id" validate:"required"`
	Action ReviewAction `json:"action" validate:"required"`
	Edit   *ReviewEdit  `json:"edit,omitempty"`
}

// Validate validates the ReviewActionRequest using the validator.
func (r *ReviewActionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// ReviewActionResult is the per-item outcome of a batch review operation.
type ReviewActionResult struct {
	ItemID  string `json:"item_id"`
	Action  string `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ReviewStatusCounts summarizes the review queue for dashboards.
type ReviewStatusCounts struct {
	Pending   int `json:"pending"`
	Flagged   int `json:"flagged"`
	Confirmed int `json:"confirmed"`
	Total     int `json:"total"`
}
