//nolint:revive // types is a standard Go package name pattern
package types

import "github.com/go-playground/validator/v10"

// Tracker represents one registered tracker document.
type Tracker struct {
	Tag            string      `json:"tag"`
	Name           string      `json:"name"`
	Context        ContextType `json:"context"`
	Path           string      `json:"path"`
	Keywords       []string    `json:"keywords,omitempty"`
	RecentActivity []string    `json:"recent_activity,omitempty"`
}

// RegistryEntry is one row of the crossref registry file mapping a tracker
// tag to its on-disk document.
type RegistryEntry struct {
	Tag     string `json:"tag" validate:"required,alphanum,lowercase"`
	Path    string `json:"path" validate:"required"`
	Active  bool   `json:"active"`
	Context string `json:"context" validate:"required"`
}

// Validate validates the RegistryEntry using the validator.
func (e *RegistryEntry) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}

// TrackerContext is the per-tracker routing hint map passed to the
// inference collaborator.
type TrackerContext struct {
	FriendlyName   string   `json:"friendly_name"`
	ContextType    string   `json:"context_type"`
	Keywords       []string `json:"keywords,omitempty"`
	RecentActivity []string `json:"recent_activity,omitempty"`
}
