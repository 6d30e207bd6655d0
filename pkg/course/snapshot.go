package course

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// completedDateLayout matches the millisecond ISO-8601 timestamps the
// snapshot format has always used.
const completedDateLayout = "2006-01-02T15:04:05.000Z07:00"

// courseJSON is the persisted shape of a Course. Every field is optional on
// decode; missing ones take their zero value, which is the model default.
type courseJSON struct {
	ID            flexID       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	DueDate       string       `json:"dueDate"`
	Checkpoints   []Checkpoint `json:"checkpoints"`
	Progress      float64      `json:"progress"`
	IsCompleted   bool         `json:"isCompleted"`
	CompletedDate *string      `json:"completedDate"`
}

// MarshalJSON implements json.Marshaler using the snapshot field names.
func (c Course) MarshalJSON() ([]byte, error) {
	cps := c.Checkpoints
	if cps == nil {
		cps = []Checkpoint{}
	}
	rec := courseJSON{
		ID:          flexID(c.ID),
		Name:        c.Name,
		Description: c.Description,
		DueDate:     c.DueDate.String(),
		Checkpoints: cps,
		Progress:    float64(c.Progress),
		IsCompleted: c.IsCompleted,
	}
	if c.CompletedDate != nil {
		s := c.CompletedDate.UTC().Format(completedDateLayout)
		rec.CompletedDate = &s
	}
	return json.Marshal(rec)
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable dates degrade to
// "absent" rather than failing the whole record.
func (c *Course) UnmarshalJSON(data []byte) error {
	var rec courseJSON
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	due, err := ParseDate(rec.DueDate)
	if err != nil {
		due = Date{}
	}

	var completed *time.Time
	if rec.CompletedDate != nil {
		if t, err := time.Parse(time.RFC3339Nano, *rec.CompletedDate); err == nil {
			t = t.UTC()
			completed = &t
		}
	}

	cps := rec.Checkpoints
	if cps == nil {
		cps = []Checkpoint{}
	}

	progress := int(math.Round(rec.Progress))
	progress = max(0, min(100, progress))

	*c = Course{
		ID:            int64(rec.ID),
		Name:          rec.Name,
		Description:   rec.Description,
		DueDate:       due,
		Checkpoints:   cps,
		Progress:      progress,
		IsCompleted:   rec.IsCompleted,
		CompletedDate: completed,
	}
	return nil
}

// flexID decodes a course id written either as a JSON number or as numeric
// text.
type flexID int64

func (id flexID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(id), 10)), nil
}

func (id *flexID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*id = flexID(n)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid course id %s", data)
	}
	*id = flexID(int64(f))
	return nil
}

// EncodeSnapshot serializes the collection as a JSON array.
func EncodeSnapshot(courses []Course) (string, error) {
	if courses == nil {
		courses = []Course{}
	}
	data, err := json.Marshal(courses)
	if err != nil {
		return "", fmt.Errorf("encoding courses: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a JSON array of courses and normalizes each one.
// An empty or null snapshot is an empty collection.
func DecodeSnapshot(raw string) ([]Course, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return []Course{}, nil
	}
	var courses []Course
	if err := json.Unmarshal([]byte(raw), &courses); err != nil {
		return nil, fmt.Errorf("decoding courses: %w", err)
	}
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		out = append(out, Normalize(c))
	}
	return out, nil
}
