package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ClassPilot/ClassPilot/localdata"
)

// ErrReminderIncomplete is returned when a reminder is missing its title or
// due date.
var ErrReminderIncomplete = errors.New("reminder needs a title and a due date")

// Reminder lives only in local storage; it is never synced to the server.
type Reminder struct {
	ID        int64     `json:"id"` // creation timestamp in milliseconds
	Title     string    `json:"title"`
	Desc      string    `json:"desc"`
	Due       string    `json:"due"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReminderStore owns the locally persisted reminder list.
type ReminderStore struct {
	mu    sync.Mutex
	local *localdata.Store
	items []Reminder

	now func() time.Time // test hook
}

// NewReminderStore restores the persisted list; a missing or corrupt entry
// reads as empty.
func NewReminderStore(local *localdata.Store) *ReminderStore {
	s := &ReminderStore{local: local, now: time.Now}
	var saved []Reminder
	if local.Get(localdata.KeyReminders, &saved) {
		s.items = saved
	}
	return s
}

// Add appends a reminder and persists the list. Title and due date are
// required; priority defaults to "medium".
func (s *ReminderStore) Add(title, desc, due string) (Reminder, error) {
	title = strings.TrimSpace(title)
	due = strings.TrimSpace(due)
	if title == "" || due == "" {
		return Reminder{}, ErrReminderIncomplete
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	r := Reminder{
		ID:        now.UnixMilli(),
		Title:     title,
		Desc:      strings.TrimSpace(desc),
		Due:       due,
		Priority:  "medium",
		CreatedAt: now,
	}
	s.items = append(s.items, r)
	s.persist()
	return r, nil
}

// Delete removes the reminder by id and persists. It reports whether a
// reminder was actually removed.
func (s *ReminderStore) Delete(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	removed := false
	for _, r := range s.items {
		if r.ID == id {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	s.items = kept
	if removed {
		s.persist()
	}
	return removed
}

// Clear wipes the persisted list.
func (s *ReminderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	_ = s.local.Delete(localdata.KeyReminders)
}

// List returns the reminders in insertion order.
func (s *ReminderStore) List() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Reminder, len(s.items))
	copy(out, s.items)
	return out
}

func (s *ReminderStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// caller holds s.mu
func (s *ReminderStore) persist() {
	_ = s.local.Set(localdata.KeyReminders, s.items)
}
