package store

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stefanpenner/learnlog/pkg/course"
)

// DefaultKey is the KV key holding the serialized course collection.
const DefaultKey = "courses"

// CourseStore owns the authoritative in-memory course collection. Every
// mutation rewrites the persisted snapshot before returning.
type CourseStore struct {
	mu          sync.Mutex
	kv          KV
	key         string
	now         func() time.Time
	logger      *log.Logger
	recentLimit int

	courses []course.Course
	lastID  int64
}

// Option configures a CourseStore.
type Option func(*CourseStore)

// WithClock overrides time.Now for ids, completion stamps and due status.
func WithClock(now func() time.Time) Option {
	return func(s *CourseStore) { s.now = now }
}

// WithLogger sets the logger used for recoverable problems.
func WithLogger(l *log.Logger) Option {
	return func(s *CourseStore) { s.logger = l }
}

// WithKey overrides the KV key.
func WithKey(key string) Option {
	return func(s *CourseStore) { s.key = key }
}

// WithRecentLimit sets the default size of RecentlyCompleted.
func WithRecentLimit(n int) Option {
	return func(s *CourseStore) { s.recentLimit = n }
}

// NewCourseStore creates an empty store over kv. Call Load to read the
// persisted snapshot.
func NewCourseStore(kv KV, opts ...Option) *CourseStore {
	s := &CourseStore{
		kv:          kv,
		key:         DefaultKey,
		now:         time.Now,
		logger:      log.New(io.Discard),
		recentLimit: course.DefaultRecentLimit,
		courses:     []course.Course{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted snapshot. A
// missing or malformed snapshot yields an empty collection; only a failing
// read is returned as an error.
func (s *CourseStore) Load() error {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		return fmt.Errorf("loading courses: %w", err)
	}

	var decoded []course.Course
	if ok {
		decoded, err = course.DecodeSnapshot(raw)
		if err != nil {
			s.logger.Warn("discarding unreadable snapshot", "key", s.key, "err", err)
			decoded = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID = 0
	for _, c := range decoded {
		s.lastID = max(s.lastID, c.ID)
	}
	s.courses = s.assignIDs(decoded)
	s.logger.Debug("loaded courses", "count", len(s.courses))
	return nil
}

// assignIDs gives records without an id, or with one already taken, a
// fresh id so no course is lost on load.
func (s *CourseStore) assignIDs(courses []course.Course) []course.Course {
	seen := make(map[int64]bool, len(courses))
	out := make([]course.Course, 0, len(courses))
	for _, c := range courses {
		if c.ID <= 0 || seen[c.ID] {
			id := s.nextID()
			s.logger.Warn("reassigning course id", "old", c.ID, "new", id, "name", c.Name)
			c.ID = id
			s.lastID = id
		}
		seen[c.ID] = true
		out = append(out, c)
	}
	return out
}

// Add appends a new course built from d. Checkpoints start unchecked and the
// course starts active. An empty name is rejected with ok=false.
func (s *CourseStore) Add(d course.Draft) (course.Course, bool, error) {
	return s.create(d, false)
}

// Import appends a new course built from d, keeping the draft's checkpoint
// and completion state. It is a single write.
func (s *CourseStore) Import(d course.Draft) (course.Course, bool, error) {
	return s.create(d, true)
}

func (s *CourseStore) create(d course.Draft, keepState bool) (course.Course, bool, error) {
	if !d.Valid() {
		return course.Course{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cps := d.NormalizedCheckpoints()
	if !keepState {
		for i := range cps {
			cps[i].Completed = false
		}
	}
	id := s.nextID()
	c := course.Course{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		DueDate:     d.DueDate,
		Checkpoints: cps,
	}
	if keepState && d.IsCompleted != nil && *d.IsCompleted {
		t := s.stamp()
		c.IsCompleted = true
		c.CompletedDate = &t
	}
	c = course.Normalize(c)

	next := append(course.CloneAll(s.courses), c)
	if err := s.commit(next); err != nil {
		return course.Course{}, false, err
	}
	s.lastID = id
	s.logger.Debug("added course", "id", id, "name", c.Name)
	return c.Clone(), true, nil
}

// nextID returns a millisecond timestamp, bumped past the last issued id so
// rapid adds stay unique.
func (s *CourseStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	return id
}

// stamp is the completion time as the snapshot stores it: UTC, millisecond
// precision, no monotonic reading. Reloading then reproduces it exactly.
func (s *CourseStore) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Edit replaces the editable fields of course id with d. Completion state is
// kept unless d.IsCompleted is set: true completes the course, false reopens
// it. Progress is re-derived afterwards.
func (s *CourseStore) Edit(id int64, d course.Draft) (course.Course, bool, error) {
	if !d.Valid() {
		return course.Course{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return course.Course{}, false, nil
	}

	next := course.CloneAll(s.courses)
	c := next[i]
	c.Name = d.Name
	c.Description = d.Description
	c.DueDate = d.DueDate
	c.Checkpoints = d.NormalizedCheckpoints()
	if d.IsCompleted != nil && *d.IsCompleted != c.IsCompleted {
		c.IsCompleted = *d.IsCompleted
		if c.IsCompleted {
			t := s.stamp()
			c.CompletedDate = &t
		} else {
			c.CompletedDate = nil
		}
	}
	c = course.Normalize(c)
	next[i] = c

	if err := s.commit(next); err != nil {
		return course.Course{}, false, err
	}
	s.logger.Debug("edited course", "id", id)
	return c.Clone(), true, nil
}

// ToggleCheckpoint flips checkpoint idx of course id and re-derives its
// progress. Unknown ids and out-of-range indexes are rejected.
func (s *CourseStore) ToggleCheckpoint(id int64, idx int) (course.Course, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 || idx < 0 || idx >= len(s.courses[i].Checkpoints) {
		return course.Course{}, false, nil
	}

	next := course.CloneAll(s.courses)
	c := next[i]
	c.Checkpoints[idx].Completed = !c.Checkpoints[idx].Completed
	c = course.Normalize(c)
	next[i] = c

	if err := s.commit(next); err != nil {
		return course.Course{}, false, err
	}
	s.logger.Debug("toggled checkpoint", "id", id, "index", idx, "completed", c.Checkpoints[idx].Completed)
	return c.Clone(), true, nil
}

// Delete removes course id.
func (s *CourseStore) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	next := make([]course.Course, 0, len(s.courses)-1)
	for j, c := range s.courses {
		if j != i {
			next = append(next, c.Clone())
		}
	}
	if err := s.commit(next); err != nil {
		return false, err
	}
	s.logger.Debug("deleted course", "id", id)
	return true, nil
}

// MarkDone completes course id and stamps the completion time. It does not
// check CanMarkDone; callers decide eligibility. A course that is already
// completed is returned unchanged with ok=true and its original stamp.
func (s *CourseStore) MarkDone(id int64) (course.Course, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return course.Course{}, false, nil
	}
	if s.courses[i].IsCompleted {
		return s.courses[i].Clone(), true, nil
	}

	next := course.CloneAll(s.courses)
	t := s.stamp()
	c := next[i]
	c.IsCompleted = true
	c.CompletedDate = &t
	c.Progress = 100
	next[i] = c

	if err := s.commit(next); err != nil {
		return course.Course{}, false, err
	}
	s.logger.Debug("completed course", "id", id, "name", c.Name)
	return c.Clone(), true, nil
}

// commit persists next and only then makes it the live collection, so a
// failed write leaves memory matching the last good snapshot.
func (s *CourseStore) commit(next []course.Course) error {
	raw, err := course.EncodeSnapshot(next)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.key, raw); err != nil {
		return fmt.Errorf("saving courses: %w", err)
	}
	s.courses = next
	return nil
}

func (s *CourseStore) index(id int64) int {
	for i, c := range s.courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Courses returns a copy of the collection in insertion order.
func (s *CourseStore) Courses() []course.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return course.CloneAll(s.courses)
}

// Active returns the courses that are not completed.
func (s *CourseStore) Active() []course.Course {
	return course.Active(s.Courses())
}

// Get returns course id.
func (s *CourseStore) Get(id int64) (course.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.courses[i].Clone(), true
	}
	return course.Course{}, false
}

// OverallProgress averages the progress of every active course.
func (s *CourseStore) OverallProgress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return course.Overall(s.courses)
}

// RecentlyCompleted returns up to limit completed courses, newest first. A
// non-positive limit uses the store's configured default.
func (s *CourseStore) RecentlyCompleted(limit int) []course.Course {
	if limit <= 0 {
		limit = s.recentLimit
	}
	return course.RecentlyCompleted(s.Courses(), limit)
}

// DueStatus classifies c against the store's clock.
func (s *CourseStore) DueStatus(c course.Course) course.DueStatus {
	return course.DueStatusAt(c, s.now())
}

// Now returns the store's current time.
func (s *CourseStore) Now() time.Time {
	return s.now()
}
