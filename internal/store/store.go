// Package store owns the template collection: loading it from the injected
// persistence capability, mutating it, and merging imported drafts. It is
// the only writer of schedule data; the import pipeline just produces
// drafts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/timetable-app/timetable/internal/importer"
	"github.com/timetable-app/timetable/internal/schedule"
	"github.com/timetable-app/timetable/internal/storage"
	"github.com/timetable-app/timetable/internal/timegrid"
)

// ErrPersistenceFailure wraps a failed write of the schedule document.
// In-memory state is kept: the user's edits stay visible even when the
// write failed.
var ErrPersistenceFailure = errors.New("persistence failure")

// ErrNotFound is returned for lookups of unknown template or course ids.
var ErrNotFound = errors.New("not found")

// ErrLastTemplate guards the invariant that at least one template always
// exists.
var ErrLastTemplate = errors.New("cannot delete the last template")

// Document is the unit of persistence: one JSON blob under a single key.
type Document struct {
	Templates          []schedule.Template `json:"templates"`
	CurrentTemplateID  string              `json:"currentTemplateId"`
	IsSidebarCollapsed bool                `json:"isSidebarCollapsed"`
}

// DefaultTemplateID is the id of the bootstrap template.
const DefaultTemplateID = "default"

// DefaultTemplateName is the name of the bootstrap template.
const DefaultTemplateName = "Основное расписание"

// savedTTL is how long the saved notification stays raised.
const savedTTL = 2 * time.Second

func defaultTemplate() schedule.Template {
	return schedule.Template{
		ID:      DefaultTemplateID,
		Name:    DefaultTemplateName,
		Courses: []schedule.Course{},
	}
}

// Store is safe for concurrent use: unlike the original single-threaded UI
// loop, the HTTP server calls it from multiple goroutines.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *slog.Logger

	doc        Document
	saved      bool
	savedTimer *time.Timer
}

// New creates a Store backed by kv and loads the persisted document,
// falling back to the legacy key and then to the default bootstrap. A
// corrupted value at either key is recovered from, never fatal.
func New(kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger}
	s.doc = s.load()
	return s
}

func (s *Store) load() Document {
	if raw, found, err := s.kv.Get(storage.ScheduleDataKey); err == nil && found {
		var doc Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			s.logger.Warn("corrupted schedule document, starting from default", "error", err)
		} else {
			return normalize(doc)
		}
	} else if err != nil {
		s.logger.Warn("failed to read schedule document", "error", err)
	}

	// Backward compatibility: older releases stored a bare templates array.
	if raw, found, err := s.kv.Get(storage.LegacyTemplatesKey); err == nil && found {
		var templates []schedule.Template
		if err := json.Unmarshal([]byte(raw), &templates); err != nil {
			s.logger.Warn("corrupted legacy templates, starting from default", "error", err)
		} else {
			return normalize(Document{Templates: templates, CurrentTemplateID: DefaultTemplateID})
		}
	}

	return Document{
		Templates:         []schedule.Template{defaultTemplate()},
		CurrentTemplateID: DefaultTemplateID,
	}
}

// normalize restores the store invariants on a loaded document: at least one
// template, and a current pointer that resolves.
func normalize(doc Document) Document {
	if len(doc.Templates) == 0 {
		doc.Templates = []schedule.Template{defaultTemplate()}
	}
	for i := range doc.Templates {
		if doc.Templates[i].Courses == nil {
			doc.Templates[i].Courses = []schedule.Course{}
		}
	}
	resolved := false
	for _, t := range doc.Templates {
		if t.ID == doc.CurrentTemplateID {
			resolved = true
			break
		}
	}
	if !resolved {
		doc.CurrentTemplateID = doc.Templates[0].ID
	}
	return doc
}

// persist writes the full document and raises the saved flag. Write failures
// are logged and reported but in-memory state is kept.
func (s *Store) persist() error {
	data, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	if err := s.kv.Set(storage.ScheduleDataKey, string(data)); err != nil {
		s.logger.Error("failed to persist schedule document", "error", err)
		return fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}
	s.markSaved()
	return nil
}

func (s *Store) markSaved() {
	s.saved = true
	if s.savedTimer != nil {
		s.savedTimer.Stop()
	}
	s.savedTimer = time.AfterFunc(savedTTL, func() {
		s.mu.Lock()
		s.saved = false
		s.mu.Unlock()
	})
}

// Saved reports whether a mutation persisted within the last two seconds.
func (s *Store) Saved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyDoc()
}

func (s *Store) copyDoc() Document {
	out := s.doc
	out.Templates = make([]schedule.Template, len(s.doc.Templates))
	for i, t := range s.doc.Templates {
		tc := t
		tc.Courses = append([]schedule.Course(nil), t.Courses...)
		out.Templates[i] = tc
	}
	return out
}

func (s *Store) current() *schedule.Template {
	for i := range s.doc.Templates {
		if s.doc.Templates[i].ID == s.doc.CurrentTemplateID {
			return &s.doc.Templates[i]
		}
	}
	return nil
}

// Current returns a copy of the current template.
func (s *Store) Current() schedule.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := *s.current()
	t.Courses = append([]schedule.Course(nil), t.Courses...)
	return t
}

// Template returns a copy of the template with the given id.
func (s *Store) Template(id string) (schedule.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.doc.Templates {
		if t.ID == id {
			t.Courses = append([]schedule.Course(nil), t.Courses...)
			return t, nil
		}
	}
	return schedule.Template{}, fmt.Errorf("%w: template %s", ErrNotFound, id)
}

// Create appends a new empty template and makes it current. The
// auto-generated name uses the current count and is not guaranteed free of
// collisions with renamed templates.
func (s *Store) Create() (schedule.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := schedule.Template{
		ID:      schedule.NewID(),
		Name:    fmt.Sprintf("Новый шаблон (%d)", len(s.doc.Templates)+1),
		Courses: []schedule.Course{},
	}
	s.doc.Templates = append(s.doc.Templates, t)
	s.doc.CurrentTemplateID = t.ID
	return t, s.persist()
}

// Delete removes the current template and points at the first remaining
// one. Refused when only one template exists.
func (s *Store) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.doc.Templates) <= 1 {
		return ErrLastTemplate
	}
	kept := s.doc.Templates[:0]
	for _, t := range s.doc.Templates {
		if t.ID != s.doc.CurrentTemplateID {
			kept = append(kept, t)
		}
	}
	s.doc.Templates = kept
	s.doc.CurrentTemplateID = s.doc.Templates[0].ID
	return s.persist()
}

// Rename sets a template's name. A name that trims to empty is a no-op.
func (s *Store) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Templates {
		if s.doc.Templates[i].ID == id {
			s.doc.Templates[i].Name = name
			return s.persist()
		}
	}
	return fmt.Errorf("%w: template %s", ErrNotFound, id)
}

// Select makes the template with the given id current.
func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.doc.Templates {
		if t.ID == id {
			s.doc.CurrentTemplateID = id
			return s.persist()
		}
	}
	return fmt.Errorf("%w: template %s", ErrNotFound, id)
}

// SetSidebarCollapsed stores the sidebar state.
func (s *Store) SetSidebarCollapsed(collapsed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.IsSidebarCollapsed = collapsed
	return s.persist()
}

// AddCourse adds a course to the current template, assigning a fresh id when
// none is set.
func (s *Store) AddCourse(c schedule.Course) (schedule.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = schedule.NewID()
	}
	cur := s.current()
	cur.Courses = append(cur.Courses, c)
	return c, s.persist()
}

// UpdateCourse replaces the course with the same id in the current template.
func (s *Store) UpdateCourse(c schedule.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	for i := range cur.Courses {
		if cur.Courses[i].ID == c.ID {
			cur.Courses[i] = c
			return s.persist()
		}
	}
	return fmt.Errorf("%w: course %s", ErrNotFound, c.ID)
}

// DeleteCourse removes a course from the current template.
func (s *Store) DeleteCourse(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	for i := range cur.Courses {
		if cur.Courses[i].ID == id {
			cur.Courses = append(cur.Courses[:i], cur.Courses[i+1:]...)
			return s.persist()
		}
	}
	return fmt.Errorf("%w: course %s", ErrNotFound, id)
}

// MoveCourse rewrites a course's slot and day, preserving its id and every
// other field. This is the drag-and-drop mutation contract.
func (s *Store) MoveCourse(id string, slot timegrid.Slot, day int) error {
	if day < 0 || day >= timegrid.NumDays {
		return fmt.Errorf("%w: invalid day index %d", importer.ErrInvalidField, day)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	for i := range cur.Courses {
		if cur.Courses[i].ID == id {
			cur.Courses[i].StartTime = slot.StartTime
			cur.Courses[i].EndTime = slot.EndTime
			cur.Courses[i].DayOfWeek = day
			return s.persist()
		}
	}
	return fmt.Errorf("%w: course %s", ErrNotFound, id)
}

// MergeImported appends validated drafts to the collection. Each draft and
// each of its courses gets a fresh id; name collisions against the existing
// set are resolved in processing order, with earlier drafts registered
// before later ones are named. The current pointer moves to the first
// imported template.
func (s *Store) MergeImported(drafts []importer.Draft) ([]schedule.Template, error) {
	if len(drafts) == 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.doc.Templates))
	for _, t := range s.doc.Templates {
		existing[t.Name] = struct{}{}
	}

	added := make([]schedule.Template, 0, len(drafts))
	for _, d := range drafts {
		name := schedule.UniqueName(d.Name, existing)
		existing[name] = struct{}{}

		t := schedule.Template{
			ID:      schedule.NewID(),
			Name:    name,
			Courses: make([]schedule.Course, len(d.Courses)),
		}
		for i, c := range d.Courses {
			c.ID = schedule.NewID()
			t.Courses[i] = c
		}
		s.doc.Templates = append(s.doc.Templates, t)
		added = append(added, t)
	}
	s.doc.CurrentTemplateID = added[0].ID
	return added, s.persist()
}

