package tracker

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontmatter is the optional YAML metadata block at the top of a tracker file.
type frontmatter struct {
	Name    string `yaml:"name"`
	Context string `yaml:"context"`
}

// parseFrontmatter extracts the YAML frontmatter block, if present, and the
// remaining document body. A malformed block is ignored rather than fatal.
func parseFrontmatter(content string) (frontmatter, string) {
	var fm frontmatter

	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fm, content
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			block := strings.Join(lines[1:i], "\n")
			if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
				return frontmatter{}, content
			}
			return fm, strings.Join(lines[i+1:], "\n")
		}
	}

	return frontmatter{}, content
}

// firstHeading returns the text of the first "# " heading in the body.
func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") && !strings.HasPrefix(trimmed, "## ") {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		}
	}
	return ""
}

// keywordStopwords are common words excluded from keyword extraction.
var keywordStopwords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"about": true, "will": true, "been": true, "were": true, "they": true,
	"their": true, "there": true, "when": true, "what": true, "then": true,
	"task": true, "review": true, "someday": true, "items": true,
	"action": true, "activity": true, "queue": true, "references": true,
}

// maxKeywords bounds the routing-hint keyword set per tracker.
const maxKeywords = 10

// extractKeywords derives a frequency-ranked keyword set from the document
// body. Used only as inference context, so precision does not matter much.
func extractKeywords(body string) []string {
	counts := make(map[string]int)
	for _, raw := range strings.Fields(body) {
		word := strings.ToLower(strings.Trim(raw, ".,;:!?()[]#@*-\"'"))
		if len(word) < 4 || keywordStopwords[word] {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}
	return words
}

// maxRecentActivity bounds the recent-activity tail per tracker.
const maxRecentActivity = 5

// recentActivity returns the most recent entries of the Activity Log
// section, newest last.
func recentActivity(body string) []string {
	lines := strings.Split(body, "\n")

	var entries []string
	inSection := false
	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == sectionHeaders[SectionActivity] {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(trimmed, "## ") {
			break
		}
		if inSection && isEntryLine(line) {
			entries = append(entries, strings.TrimSpace(line))
		}
	}

	if len(entries) > maxRecentActivity {
		entries = entries[len(entries)-maxRecentActivity:]
	}
	return entries
}
