package format

import (
	"regexp"
	"time"
)

var (
	hashtagPattern    = regexp.MustCompile(`#([\p{L}\d][\p{L}\d_-]*)`)
	contextTagPattern = regexp.MustCompile(`@([\p{L}\d][\p{L}\d_-]*)`)
	dueDatePattern    = regexp.MustCompile(DueToken + ` (\d{4}-\d{2}-\d{2})`)
	completionPattern = regexp.MustCompile(CompletionToken + ` (\d{4}-\d{2}-\d{2})`)
	timestampPattern  = regexp.MustCompile(`^- (\d{4}-\d{2}-\d{2} \d{2}:\d{2})\b`)
)

// ExtractHashtags returns all #tag tokens in line, without the # prefix.
func ExtractHashtags(line string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(line, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// ExtractContextTags returns all @context tokens in line, without the @ prefix.
func ExtractContextTags(line string) []string {
	var tags []string
	for _, m := range contextTagPattern.FindAllStringSubmatch(line, -1) {
		tags = append(tags, m[1])
	}
	return tags
}

// HasTag reports whether line contains exactly #tag. The match must end at a
// word boundary so #task123 is not read as #task.
func HasTag(line, tag string) bool {
	pattern := regexp.MustCompile(`#` + regexp.QuoteMeta(tag) + `(\b|$)`)
	for _, loc := range pattern.FindAllStringIndex(line, -1) {
		end := loc[1]
		if end >= len(line) {
			return true
		}
		next := line[end]
		if next != '_' && next != '-' && !isWordByte(next) {
			return true
		}
	}
	return false
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// EntryDate extracts the sort-key date of an entry line. Tokens are checked
// in fixed priority order: due date, completion date, activity timestamp.
// Returns false when the line carries no recognizable date token.
func EntryDate(line string) (time.Time, bool) {
	if m := dueDatePattern.FindStringSubmatch(line); m != nil {
		if t, err := time.ParseInLocation(DateLayout, m[1], time.Local); err == nil {
			return t, true
		}
	}
	if m := completionPattern.FindStringSubmatch(line); m != nil {
		if t, err := time.ParseInLocation(DateLayout, m[1], time.Local); err == nil {
			return t, true
		}
	}
	if m := timestampPattern.FindStringSubmatch(line); m != nil {
		if t, err := time.ParseInLocation(TimestampLayout, m[1], time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
