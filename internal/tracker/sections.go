package tracker

import (
	"strings"

	"github.com/jonathan/thought-capture/internal/format"
	"github.com/jonathan/thought-capture/internal/types"
)

// Section keys. Sections are identified by this fixed header-to-key mapping,
// never by free text.
const (
	SectionActions    = "actions"
	SectionActivity   = "activity"
	SectionReview     = "review"
	SectionReferences = "references"
	SectionSomeday    = "someday"
)

// sectionHeaders maps section keys to their exact header lines.
var sectionHeaders = map[string]string{
	SectionActions:    "## Action Items",
	SectionActivity:   "## Activity Log",
	SectionReview:     "## Review Queue",
	SectionReferences: "## References",
	SectionSomeday:    "## Someday/Maybe",
}

// SectionHeader returns the exact header line for a section key.
func SectionHeader(key string) (string, bool) {
	h, ok := sectionHeaders[key]
	return h, ok
}

// ValidSection reports whether key is a recognized section key.
func ValidSection(key string) bool {
	_, ok := sectionHeaders[key]
	return ok
}

// SectionForItem maps an item type to its default section key.
func SectionForItem(itemType types.ItemType) string {
	switch itemType {
	case types.ItemAction:
		return SectionActions
	case types.ItemActivity:
		return SectionActivity
	case types.ItemReference:
		return SectionReferences
	case types.ItemSomeday:
		return SectionSomeday
	default:
		return SectionReview
	}
}

// insertEntry inserts entry into the section delimited by header, keeping
// dated entries in ascending date order and leaving undated entries at the
// end of the section in their existing relative order. The section is
// created at end-of-document when the header is absent. Pure function over
// lines.
func insertEntry(lines []string, header, entry string) []string {
	headerIdx := -1
	for i, line := range lines {
		if strings.TrimRight(line, " \t") == header {
			headerIdx = i
			break
		}
	}

	if headerIdx < 0 {
		out := trimTrailingBlank(lines)
		if len(out) > 0 {
			out = append(out, "")
		}
		return append(out, header, entry)
	}

	// Delimit the section: everything up to the next header or end of file.
	sectionEnd := len(lines)
	for i := headerIdx + 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], "## ") {
			sectionEnd = i
			break
		}
	}

	insertAt := insertPosition(lines, headerIdx, sectionEnd, entry)

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insertAt]...)
	out = append(out, entry)
	out = append(out, lines[insertAt:]...)
	return out
}

// insertPosition computes the line index at which entry belongs within the
// section bounded by (headerIdx, sectionEnd). Ties and unparseable dates
// preserve existing relative order.
func insertPosition(lines []string, headerIdx, sectionEnd int, entry string) int {
	newDate, newDated := format.EntryDate(entry)

	lastEntry := headerIdx
	for i := headerIdx + 1; i < sectionEnd; i++ {
		if !isEntryLine(lines[i]) {
			continue
		}
		if newDated {
			if d, ok := format.EntryDate(lines[i]); !ok || d.After(newDate) {
				// First undated entry, or first entry dated after the new
				// one: the new entry goes before it. Equal dates fall
				// through so insertion stays stable.
				return i
			}
		}
		lastEntry = i
	}

	// End of section: after the last existing entry, or directly under the
	// header when the section is empty.
	return lastEntry + 1
}

// isEntryLine reports whether a line is a tracker entry rather than a blank
// line or prose.
func isEntryLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), "- ")
}

// trimTrailingBlank drops trailing empty lines.
func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
