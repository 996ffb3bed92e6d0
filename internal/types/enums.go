// Package types provides type definitions for structured data used throughout the thought-capture system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ItemType classifies a routed entry into one of the recognized tracker sections.
type ItemType string

// Recognized item types. Anything else normalizes to ItemReview.
const (
	ItemAction    ItemType = "action"
	ItemActivity  ItemType = "activity"
	ItemReference ItemType = "reference"
	ItemSomeday   ItemType = "someday"
	ItemReview    ItemType = "review"
)

// Priority is the urgency level attached to an action item.
type Priority string

// Recognized priorities. Anything else normalizes to PriorityMedium.
const (
	PriorityHighest Priority = "highest"
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
)

// ContextType is the life-area classification of a tracker.
type ContextType string

// Recognized tracker contexts.
const (
	ContextBusiness ContextType = "business"
	ContextPersonal ContextType = "personal"
	ContextProject  ContextType = "project"
	ContextSystem   ContextType = "system"
)

// itemTypeAliases maps common variants returned by the LLM to canonical types
var itemTypeAliases = map[string]ItemType{
	"action":      ItemAction,
	"task":        ItemAction,
	"todo":        ItemAction,
	"action_item": ItemAction,
	"activity":    ItemActivity,
	"log":         ItemActivity,
	"note":        ItemActivity,
	"reference":   ItemReference,
	"ref":         ItemReference,
	"link":        ItemReference,
	"someday":     ItemSomeday,
	"maybe":       ItemSomeday,
	"idea":        ItemSomeday,
	"review":      ItemReview,
}

// priorityAliases maps common variants returned by the LLM to canonical priorities
var priorityAliases = map[string]Priority{
	"highest":  PriorityHighest,
	"urgent":   PriorityHighest,
	"critical": PriorityHighest,
	"high":     PriorityHigh,
	"medium":   PriorityMedium,
	"normal":   PriorityMedium,
	"low":      PriorityLow,
}

// NormalizeItemType maps an arbitrary string to a recognized ItemType.
// Unknown values fall back to ItemReview so unclassifiable content lands
// in the review queue rather than a wrong section.
func NormalizeItemType(s string) ItemType {
	if t, ok := itemTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return ItemReview
}

// NormalizePriority maps an arbitrary string to a recognized Priority.
// Unknown values fall back to PriorityMedium.
func NormalizePriority(s string) Priority {
	if p, ok := priorityAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p
	}
	return PriorityMedium
}

// ValidContextType reports whether s is one of the recognized tracker contexts.
func ValidContextType(s string) bool {
	switch ContextType(strings.ToLower(strings.TrimSpace(s))) {
	case ContextBusiness, ContextPersonal, ContextProject, ContextSystem:
		return true
	}
	return false
}
