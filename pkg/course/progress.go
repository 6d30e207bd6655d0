package course

import (
	"math"
	"sort"
	"time"
)

// DefaultRecentLimit is how many completed courses RecentlyCompleted returns
// when no positive limit is given.
const DefaultRecentLimit = 5

// DueStatus classifies a course's due date relative to today.
type DueStatus int

const (
	DueNone DueStatus = iota
	DueToday
	DueOverdue
	DueUpcoming
)

func (s DueStatus) String() string {
	switch s {
	case DueToday:
		return "dueToday"
	case DueOverdue:
		return "overdue"
	case DueUpcoming:
		return "upcoming"
	default:
		return "none"
	}
}

// Progress derives a course's completion percentage from its checkpoints:
// 0 with no checkpoints, otherwise round(100 * completed / total).
func Progress(c Course) int {
	return percent(c.CompletedCount(), len(c.Checkpoints))
}

func percent(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// CanMarkDone reports whether the course is eligible for mark-as-done: it has
// no checkpoints, or every checkpoint is completed.
func CanMarkDone(c Course) bool {
	return c.CompletedCount() == len(c.Checkpoints)
}

// Normalize makes Progress consistent again: completed courses sit at 100,
// others at the value derived from their checkpoints. Checkpoints is never
// left nil.
func Normalize(c Course) Course {
	if c.Checkpoints == nil {
		c.Checkpoints = []Checkpoint{}
	}
	if c.IsCompleted {
		c.Progress = 100
	} else {
		c.Progress = Progress(c)
	}
	return c
}

// DueStatusAt classifies c's due date against the calendar day of now.
// Completed courses are never overdue.
func DueStatusAt(c Course, now time.Time) DueStatus {
	if !c.HasDueDate() {
		return DueNone
	}
	today := DateOf(now)
	switch {
	case c.DueDate == today:
		return DueToday
	case c.DueDate.Before(today) && !c.IsCompleted:
		return DueOverdue
	default:
		return DueUpcoming
	}
}

// Active returns the courses that are not yet completed, in order.
func Active(courses []Course) []Course {
	var out []Course
	for _, c := range courses {
		if !c.IsCompleted {
			out = append(out, c)
		}
	}
	return out
}

// Overall averages the stored progress of every non-completed course,
// rounded to the nearest integer. It is 0 when nothing is active.
func Overall(courses []Course) int {
	sum, n := 0, 0
	for _, c := range courses {
		if c.IsCompleted {
			continue
		}
		sum += c.Progress
		n++
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// RecentlyCompleted returns completed courses, most recently completed first,
// truncated to limit (DefaultRecentLimit when limit <= 0). Courses without a
// completion date sort last.
func RecentlyCompleted(courses []Course, limit int) []Course {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var done []Course
	for _, c := range courses {
		if c.IsCompleted {
			done = append(done, c)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		a, b := done[i].CompletedDate, done[j].CompletedDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	if len(done) > limit {
		done = done[:limit]
	}
	return done
}
