package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	done := time.Date(2026, 10, 17, 8, 15, 30, 250_000_000, time.UTC)
	courses := []Course{
		{
			ID:          1760774400000,
			Name:        "Algebra",
			Description: "Linear algebra refresher",
			DueDate:     Date{Year: 2026, Month: time.November, Day: 2},
			Checkpoints: []Checkpoint{{Name: "Ch1", Completed: true}, {Name: "Ch2"}},
			Progress:    50,
		},
		{
			ID:            1760774400001,
			Name:          "Go",
			Checkpoints:   []Checkpoint{},
			Progress:      100,
			IsCompleted:   true,
			CompletedDate: &done,
		},
	}

	raw, err := EncodeSnapshot(courses)
	require.NoError(t, err)

	decoded, err := DecodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, courses, decoded)
}

func TestEncodeSnapshotFieldNames(t *testing.T) {
	done := time.Date(2026, 10, 17, 8, 15, 30, 0, time.UTC)
	raw, err := EncodeSnapshot([]Course{{
		ID:            42,
		Name:          "Stats",
		DueDate:       Date{Year: 2026, Month: time.December, Day: 1},
		Progress:      100,
		IsCompleted:   true,
		CompletedDate: &done,
	}})
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"id": 42,
		"name": "Stats",
		"description": "",
		"dueDate": "2026-12-01",
		"checkpoints": [],
		"progress": 100,
		"isCompleted": true,
		"completedDate": "2026-10-17T08:15:30.000Z"
	}]`, raw)
}

func TestEncodeSnapshotNullCompletedDate(t *testing.T) {
	raw, err := EncodeSnapshot([]Course{{ID: 1, Name: "A"}})
	require.NoError(t, err)
	assert.Contains(t, raw, `"completedDate":null`)
	assert.Contains(t, raw, `"dueDate":""`)

	raw, err = EncodeSnapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestDecodeSnapshotDefaults(t *testing.T) {
	courses, err := DecodeSnapshot(`[
		{"id": 7, "name": "Sparse", "checkpoints": [{"name": "a"}, {"completed": true}, {}]},
		{"id": 8}
	]`)
	require.NoError(t, err)
	require.Len(t, courses, 2)

	sparse := courses[0]
	assert.Equal(t, int64(7), sparse.ID)
	assert.Equal(t, "", sparse.Description)
	assert.False(t, sparse.HasDueDate())
	assert.Equal(t, []Checkpoint{{Name: "a"}, {Completed: true}, {}}, sparse.Checkpoints)
	assert.Equal(t, 33, sparse.Progress, "progress re-derived from checkpoints")
	assert.False(t, sparse.IsCompleted)
	assert.Nil(t, sparse.CompletedDate)

	bare := courses[1]
	assert.Equal(t, "", bare.Name)
	assert.NotNil(t, bare.Checkpoints)
	assert.Empty(t, bare.Checkpoints)
	assert.Equal(t, 0, bare.Progress)
}

func TestDecodeSnapshotTolerance(t *testing.T) {
	courses, err := DecodeSnapshot(`[{
		"id": "1700000000000",
		"name": "Legacy",
		"dueDate": "2026-03-04T00:00:00.000Z",
		"progress": 12,
		"isCompleted": true,
		"completedDate": "not a date"
	}]`)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	c := courses[0]
	assert.Equal(t, int64(1700000000000), c.ID)
	assert.Equal(t, Date{Year: 2026, Month: time.March, Day: 4}, c.DueDate)
	assert.Equal(t, 100, c.Progress, "completed courses are pinned to 100")
	assert.Nil(t, c.CompletedDate)
}

func TestDecodeSnapshotEmpty(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]"} {
		courses, err := DecodeSnapshot(raw)
		require.NoError(t, err, raw)
		assert.Empty(t, courses, raw)
	}
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	for _, raw := range []string{"{", `{"id": 1}`, `[{"id": "abc"}]`, `[{"name": 5}]`} {
		_, err := DecodeSnapshot(raw)
		assert.Error(t, err, raw)
	}
}
