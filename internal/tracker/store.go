package tracker

import (
	"context"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/thought-capture/internal/format"
	"github.com/jonathan/thought-capture/internal/types"
)

// loadConcurrency bounds parallel tracker file reads during Initialize.
const loadConcurrency = 4

// Store owns the on-disk tracker documents. Public mutation operations never
// panic or leak errors past the boundary: unknown tags and I/O failures
// surface as a boolean false so capture can degrade instead of crashing.
type Store struct {
	crossrefPath string

	mu       sync.RWMutex
	trackers map[string]*types.Tracker
	order    []string
}

// NewStore creates a Store reading its registry from crossrefPath. Call
// Initialize before use.
func NewStore(crossrefPath string) *Store {
	return &Store{
		crossrefPath: crossrefPath,
		trackers:     make(map[string]*types.Tracker),
	}
}

// Initialize loads the registry and parses every active tracker file's
// metadata and content stats. Parsing is best-effort: a tracker whose file
// cannot be read or parsed is skipped, never fatal.
func (s *Store) Initialize(ctx context.Context) error {
	reg, err := LoadRegistry(s.crossrefPath)
	if err != nil {
		return err
	}

	trackers := make(map[string]*types.Tracker)
	var order []string
	var loaded sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for _, entry := range reg.Trackers {
		if !entry.Active {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr, err := loadTracker(entry)
			if err != nil {
				log.Printf("tracker %s: skipping: %v", entry.Tag, err)
				return nil
			}
			loaded.Lock()
			trackers[tr.Tag] = tr
			loaded.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Listing order follows the registry, not map iteration.
	for _, entry := range reg.Trackers {
		if _, ok := trackers[entry.Tag]; ok {
			order = append(order, entry.Tag)
		}
	}

	s.mu.Lock()
	s.trackers = trackers
	s.order = order
	s.mu.Unlock()

	return nil
}

// Refresh re-runs initialization to pick up out-of-band manual edits.
func (s *Store) Refresh(ctx context.Context) error {
	return s.Initialize(ctx)
}

// loadTracker reads one tracker file and derives its metadata and routing
// hints.
func loadTracker(entry types.RegistryEntry) (*types.Tracker, error) {
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, err
	}

	fm, body := parseFrontmatter(string(data))

	name := fm.Name
	if name == "" {
		name = firstHeading(body)
	}
	if name == "" {
		name = entry.Tag
	}

	ctxType := types.ContextType(strings.ToLower(entry.Context))
	if fm.Context != "" && types.ValidContextType(fm.Context) {
		ctxType = types.ContextType(strings.ToLower(fm.Context))
	}

	return &types.Tracker{
		Tag:            entry.Tag,
		Name:           name,
		Context:        ctxType,
		Path:           entry.Path,
		Keywords:       extractKeywords(body),
		RecentActivity: recentActivity(body),
	}, nil
}

// Get returns the tracker for tag, if registered.
func (s *Store) Get(tag string) (*types.Tracker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tr, ok := s.trackers[tag]
	return tr, ok
}

// Trackers returns all registered trackers in registry listing order.
func (s *Store) Trackers() []*types.Tracker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Tracker, 0, len(s.order))
	for _, tag := range s.order {
		out = append(out, s.trackers[tag])
	}
	return out
}

// ContextMap builds the tracker-context map handed to the inference
// collaborator.
func (s *Store) ContextMap() map[string]types.TrackerContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.TrackerContext, len(s.trackers))
	for tag, tr := range s.trackers {
		out[tag] = types.TrackerContext{
			FriendlyName:   tr.Name,
			ContextType:    string(tr.Context),
			Keywords:       tr.Keywords,
			RecentActivity: tr.RecentActivity,
		}
	}
	return out
}

// AppendToTracker appends a formatted line into the Action Items section.
func (s *Store) AppendToTracker(tag, formattedLine string) bool {
	return s.appendToSection(tag, SectionActions, formattedLine)
}

// AppendActivity appends a formatted line into the Activity Log section.
func (s *Store) AppendActivity(tag, formattedLine string) bool {
	return s.appendToSection(tag, SectionActivity, formattedLine)
}

// AppendReview appends a formatted line into the Review Queue section.
func (s *Store) AppendReview(tag, formattedLine string) bool {
	return s.appendToSection(tag, SectionReview, formattedLine)
}

// AppendToSection appends a formatted line into an arbitrary recognized
// section.
func (s *Store) AppendToSection(tag, sectionKey, formattedLine string) bool {
	return s.appendToSection(tag, sectionKey, formattedLine)
}

func (s *Store) appendToSection(tag, sectionKey, formattedLine string) bool {
	header, ok := SectionHeader(sectionKey)
	if !ok {
		log.Printf("tracker %s: unknown section %q", tag, sectionKey)
		return false
	}

	tr, ok := s.Get(tag)
	if !ok {
		log.Printf("tracker %s: unknown tag", tag)
		return false
	}

	content, ok := readTrackerFile(tr.Path)
	if !ok {
		return false
	}

	lines := splitLines(content)
	lines = insertEntry(lines, header, formattedLine)

	return writeTrackerFile(tr.Path, lines)
}

// MarkTaskComplete fuzzy-matches an open action item by case-insensitive
// substring containment and flips its checkbox. First match top-to-bottom
// wins; a completion date is appended when the line has none.
func (s *Store) MarkTaskComplete(tag, taskDescription string) bool {
	tr, ok := s.Get(tag)
	if !ok {
		log.Printf("tracker %s: unknown tag", tag)
		return false
	}

	content, ok := readTrackerFile(tr.Path)
	if !ok {
		return false
	}

	needle := strings.ToLower(strings.TrimSpace(taskDescription))
	if needle == "" {
		return false
	}

	lines := splitLines(content)
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(trimmed, format.PrefixOpen) {
			continue
		}
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}

		lines[i] = strings.Replace(line, "[ ]", "[x]", 1)
		if !strings.Contains(lines[i], format.CompletionToken) {
			lines[i] += " " + format.CompletionToken + " " + time.Now().Format(format.DateLayout)
		}
		return writeTrackerFile(tr.Path, lines)
	}

	return false
}

// readTrackerFile reads a tracker document, treating a missing file as empty
// so a freshly registered tracker gets its first section created on demand.
func readTrackerFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", true
		}
		log.Printf("tracker file %s: read failed: %v", path, err)
		return "", false
	}
	return string(data), true
}

// writeTrackerFile rewrites the whole document, guaranteeing a trailing
// newline.
func writeTrackerFile(path string, lines []string) bool {
	content := strings.Join(lines, "\n")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		log.Printf("tracker file %s: write failed: %v", path, err)
		return false
	}
	return true
}

// splitLines splits file content into lines without a phantom trailing
// element for the final newline.
func splitLines(content string) []string {
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
