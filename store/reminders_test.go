package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ClassPilot/ClassPilot/localdata"
)

func TestReminderAddRequiresTitleAndDue(t *testing.T) {
	local := localdata.Open(filepath.Join(t.TempDir(), "state.json"))
	s := NewReminderStore(local)

	_, err := s.Add("", "desc", "2026-03-05")
	assert.ErrorIs(t, err, ErrReminderIncomplete)
	_, err = s.Add("Grade quizzes", "desc", "  ")
	assert.ErrorIs(t, err, ErrReminderIncomplete)
	assert.Empty(t, s.List())
}

func TestReminderDefaultsAndIdentity(t *testing.T) {
	local := localdata.Open(filepath.Join(t.TempDir(), "state.json"))
	s := NewReminderStore(local)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	r, err := s.Add("  Grade quizzes  ", " pile on desk ", "2026-03-05")
	assert.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), r.ID, "id is timestamp-derived")
	assert.Equal(t, "Grade quizzes", r.Title)
	assert.Equal(t, "pile on desk", r.Desc)
	assert.Equal(t, "medium", r.Priority)
	assert.Equal(t, at, r.CreatedAt)
}

func TestReminderPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	local := localdata.Open(path)

	s := NewReminderStore(local)
	r, err := s.Add("Grade quizzes", "", "2026-03-05")
	assert.NoError(t, err)

	// a fresh store over a re-opened file restores the list
	reborn := NewReminderStore(localdata.Open(path))
	got := reborn.List()
	assert.Len(t, got, 1)
	assert.Equal(t, r.ID, got[0].ID)
	assert.Equal(t, "Grade quizzes", got[0].Title)

	assert.True(t, reborn.Delete(r.ID))
	assert.False(t, reborn.Delete(r.ID), "second delete is a no-op")
	assert.Empty(t, NewReminderStore(localdata.Open(path)).List())
}
