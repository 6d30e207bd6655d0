package main

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/learnlog/pkg/course"
	"github.com/stefanpenner/learnlog/pkg/store"
)

func newMemoryStore(t *testing.T) *store.CourseStore {
	t.Helper()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s := store.NewCourseStore(store.NewMemoryKV(), store.WithClock(func() time.Time { return now }))
	require.NoError(t, s.Load())
	return s
}

func TestResolveCourse(t *testing.T) {
	s := newMemoryStore(t)
	algebra, _, err := s.Add(course.Draft{Name: "Algebra"})
	require.NoError(t, err)
	_, _, err = s.Add(course.Draft{Name: "Twin"})
	require.NoError(t, err)
	_, _, err = s.Add(course.Draft{Name: "twin"})
	require.NoError(t, err)

	c, err := resolveCourse(s, strconv.FormatInt(algebra.ID, 10))
	require.NoError(t, err)
	assert.Equal(t, "Algebra", c.Name)

	c, err = resolveCourse(s, " ALGEBRA ")
	require.NoError(t, err)
	assert.Equal(t, algebra.ID, c.ID)

	_, err = resolveCourse(s, "Twin")
	assert.ErrorContains(t, err, "matches 2 courses")

	_, err = resolveCourse(s, "42")
	assert.ErrorContains(t, err, "course not found: 42")
}

func TestCheckpointDrafts(t *testing.T) {
	drafts := checkpointDrafts([]string{"Intro", "[x] Basics", "  ", "[x]"})
	d := course.Draft{Name: "x", Checkpoints: drafts}
	assert.Equal(t, []course.Checkpoint{
		{Name: "Intro"},
		{Name: "Basics", Completed: true},
	}, d.NormalizedCheckpoints())
}

func TestCollectStats(t *testing.T) {
	s := newMemoryStore(t)
	today := course.Date{Year: 2026, Month: time.October, Day: 18}

	a, _, err := s.Add(course.Draft{Name: "Due today", DueDate: today, Checkpoints: []course.CheckpointDraft{{Name: "one"}, {Name: "two"}}})
	require.NoError(t, err)
	_, _, err = s.ToggleCheckpoint(a.ID, 0)
	require.NoError(t, err)
	_, _, err = s.Add(course.Draft{Name: "Late", DueDate: today.AddDays(-3)})
	require.NoError(t, err)
	done, _, err := s.Add(course.Draft{Name: "Finished", DueDate: today.AddDays(-10)})
	require.NoError(t, err)
	_, _, err = s.MarkDone(done.ID)
	require.NoError(t, err)

	assert.Equal(t, courseStats{
		Overall:   25,
		Active:    2,
		Completed: 1,
		DueToday:  1,
		Overdue:   1,
	}, collectStats(s))
}

func TestPrintCourse(t *testing.T) {
	s := newMemoryStore(t)
	c, _, err := s.Add(course.Draft{
		Name:        "Algebra",
		Description: "Linear equations",
		DueDate:     course.Date{Year: 2026, Month: time.October, Day: 18},
		Checkpoints: []course.CheckpointDraft{{Name: "Ch1"}, {Name: "Ch2"}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	printCourse(&buf, s, c)
	out := buf.String()
	assert.Contains(t, out, "○ Algebra\n")
	assert.Contains(t, out, "Progress: 0% (0/2 checkpoints)\n")
	assert.Contains(t, out, "Due: 18/10/2026 (today)\n")
	assert.Contains(t, out, "  Linear equations\n")
	assert.Contains(t, out, "  2. [ ] Ch2\n")

	buf.Reset()
	printCourseLine(&buf, s, c)
	assert.Equal(t, "○ Algebra  0%  due 18/10/2026 (today)  ["+strconv.FormatInt(c.ID, 10)+"]\n", buf.String())
}
