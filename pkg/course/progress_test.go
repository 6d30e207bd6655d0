package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func checkpoints(states ...bool) []Checkpoint {
	cps := make([]Checkpoint, len(states))
	for i, done := range states {
		cps[i] = Checkpoint{Name: "cp", Completed: done}
	}
	return cps
}

func TestProgress(t *testing.T) {
	tests := []struct {
		name string
		cps  []Checkpoint
		want int
	}{
		{"no checkpoints", nil, 0},
		{"none done", checkpoints(false, false), 0},
		{"half done", checkpoints(true, false), 50},
		{"one of three rounds down", checkpoints(true, false, false), 33},
		{"two of three rounds up", checkpoints(true, true, false), 67},
		{"all done", checkpoints(true, true, true), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Progress(Course{Checkpoints: tt.cps}))
		})
	}
}

func TestProgressHalfRoundsUp(t *testing.T) {
	// 1/8 = 12.5%
	cps := append(checkpoints(true), checkpoints(false, false, false, false, false, false, false)...)
	assert.Equal(t, 13, Progress(Course{Checkpoints: cps}))
}

func TestCanMarkDone(t *testing.T) {
	assert.True(t, CanMarkDone(Course{}))
	assert.False(t, CanMarkDone(Course{Checkpoints: checkpoints(true, false)}))
	assert.True(t, CanMarkDone(Course{Checkpoints: checkpoints(true, true)}))
}

func TestNormalize(t *testing.T) {
	c := Normalize(Course{Progress: 40, Checkpoints: checkpoints(true, true, true, false)})
	assert.Equal(t, 75, c.Progress)

	c = Normalize(Course{Progress: 40})
	assert.Equal(t, 0, c.Progress)
	assert.NotNil(t, c.Checkpoints)

	c = Normalize(Course{IsCompleted: true, Checkpoints: checkpoints(false)})
	assert.Equal(t, 100, c.Progress)
}

func TestDueStatusAt(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 4, 0, 0, time.Local)
	today := DateOf(now)

	tests := []struct {
		name   string
		course Course
		want   DueStatus
	}{
		{"no due date", Course{}, DueNone},
		{"due today", Course{DueDate: today}, DueToday},
		{"due yesterday", Course{DueDate: today.AddDays(-1)}, DueOverdue},
		{"due tomorrow", Course{DueDate: today.AddDays(1)}, DueUpcoming},
		{"completed past due", Course{DueDate: today.AddDays(-3), IsCompleted: true}, DueUpcoming},
		{"completed due today", Course{DueDate: today, IsCompleted: true}, DueToday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueStatusAt(tt.course, now))
		})
	}
}

func TestDueStatusIgnoresTimeOfDay(t *testing.T) {
	due := Date{Year: 2026, Month: time.October, Day: 18}
	c := Course{DueDate: due}

	assert.Equal(t, DueToday, DueStatusAt(c, time.Date(2026, 10, 18, 0, 0, 1, 0, time.UTC)))
	assert.Equal(t, DueToday, DueStatusAt(c, time.Date(2026, 10, 18, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, DueOverdue, DueStatusAt(c, time.Date(2026, 10, 19, 0, 0, 1, 0, time.UTC)))
}

func TestDueStatusString(t *testing.T) {
	assert.Equal(t, "none", DueNone.String())
	assert.Equal(t, "dueToday", DueToday.String())
	assert.Equal(t, "overdue", DueOverdue.String())
	assert.Equal(t, "upcoming", DueUpcoming.String())
}

func TestOverall(t *testing.T) {
	assert.Equal(t, 0, Overall(nil))

	courses := []Course{
		{Progress: 50},
		{Progress: 25},
		{Progress: 100, IsCompleted: true},
	}
	// (50 + 25) / 2 = 37.5
	assert.Equal(t, 38, Overall(courses))

	assert.Equal(t, 0, Overall([]Course{{Progress: 100, IsCompleted: true}}))
}

func TestActive(t *testing.T) {
	courses := []Course{{ID: 1}, {ID: 2, IsCompleted: true}, {ID: 3}}
	active := Active(courses)
	assert.Len(t, active, 2)
	assert.Equal(t, int64(1), active[0].ID)
	assert.Equal(t, int64(3), active[1].ID)
}

func TestRecentlyCompleted(t *testing.T) {
	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	at := func(days int) *time.Time {
		t := base.AddDate(0, 0, days)
		return &t
	}

	courses := []Course{
		{ID: 1, IsCompleted: true, CompletedDate: at(1)},
		{ID: 2},
		{ID: 3, IsCompleted: true, CompletedDate: nil},
		{ID: 4, IsCompleted: true, CompletedDate: at(5)},
		{ID: 5, IsCompleted: true, CompletedDate: at(3)},
		{ID: 6, IsCompleted: true, CompletedDate: at(2)},
		{ID: 7, IsCompleted: true, CompletedDate: at(4)},
		{ID: 8, IsCompleted: true, CompletedDate: at(0)},
	}

	recent := RecentlyCompleted(courses, 5)
	var ids []int64
	for _, c := range recent {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{4, 7, 5, 6, 1}, ids)

	all := RecentlyCompleted(courses, 100)
	assert.Len(t, all, 7)
	assert.Equal(t, int64(3), all[len(all)-1].ID, "nil completion date sorts last")
}

func TestRecentlyCompletedDefaultLimit(t *testing.T) {
	var courses []Course
	for i := 0; i < 8; i++ {
		ts := time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC)
		courses = append(courses, Course{ID: int64(i), IsCompleted: true, CompletedDate: &ts})
	}
	assert.Len(t, RecentlyCompleted(courses, 0), DefaultRecentLimit)
	assert.Empty(t, RecentlyCompleted([]Course{{ID: 1}}, 5))
}
