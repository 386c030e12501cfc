package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ClassPilot/ClassPilot/localdata"
)

const (
	// recentStudents is how many students from the collection tail become
	// "joined" notifications. Collection order approximates recency because
	// a full fetch keeps server order.
	recentStudents = 3

	// autoReadVisible and autoReadDelay drive the auto-mark-as-read side
	// effect when the notification panel opens.
	autoReadVisible = 10
	autoReadDelay   = 600 * time.Millisecond
)

// Notification is an ephemeral projection; it is never stored, only the
// read-id set is.
type Notification struct {
	ID    string    `json:"id"`
	Type  string    `json:"type"` // "student" | "reminder"
	Title string    `json:"title"`
	Desc  string    `json:"desc"`
	Time  time.Time `json:"time"`
}

// Feed merges recently joined students with local reminders into one
// read/unread notification feed.
type Feed struct {
	mu        sync.Mutex
	students  *StudentStore
	reminders *ReminderStore
	local     *localdata.Store
	read      map[string]struct{}
	timer     *time.Timer
}

// NewFeed restores the persisted read-id set.
func NewFeed(students *StudentStore, reminders *ReminderStore, local *localdata.Store) *Feed {
	f := &Feed{
		students:  students,
		reminders: reminders,
		local:     local,
		read:      map[string]struct{}{},
	}
	var saved []string
	if local.Get(localdata.KeyReadIDs, &saved) {
		for _, id := range saved {
			f.read[id] = struct{}{}
		}
	}
	return f
}

// Notifications rebuilds the merged feed: the last three students by
// collection order plus every reminder, sorted by timestamp descending.
// Items without a timestamp sort last, treated as epoch 0.
func (f *Feed) Notifications() []Notification {
	var list []Notification

	for _, s := range f.students.Tail(recentStudents) {
		list = append(list, Notification{
			ID:    fmt.Sprintf("student-%d", s.ID),
			Type:  "student",
			Title: fmt.Sprintf("%s joined", s.FullName),
			Desc:  fmt.Sprintf("Grade %d", s.Grade),
			Time:  s.CreatedAt,
		})
	}

	for _, r := range f.reminders.List() {
		list = append(list, Notification{
			ID:    fmt.Sprintf("reminder-%d", r.ID),
			Type:  "reminder",
			Title: r.Title,
			Desc:  r.Desc,
			Time:  r.CreatedAt,
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return sortKey(list[i].Time) > sortKey(list[j].Time)
	})
	return list
}

func sortKey(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// UnreadCount counts feed items whose id is not in the read set.
func (f *Feed) UnreadCount() int {
	items := f.Notifications()
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, it := range items {
		if _, ok := f.read[it.ID]; !ok {
			n++
		}
	}
	return n
}

// MarkRead adds one id to the read set. The id stays read until the set is
// cleared.
func (f *Feed) MarkRead(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markLocked(id)
}

// MarkAllRead marks every current feed item read.
func (f *Feed) MarkAllRead() {
	items := f.Notifications()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.read[it.ID] = struct{}{}
	}
	f.persistLocked()
}

// DeleteReminder removes the reminder and marks its notification id read, so
// it cannot linger in the unread count.
func (f *Feed) DeleteReminder(id int64) {
	f.reminders.Delete(id)
	f.MarkRead(fmt.Sprintf("reminder-%d", id))
}

// ClearAll wipes the reminder list and the read set.
func (f *Feed) ClearAll() {
	f.reminders.Clear()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read = map[string]struct{}{}
	f.persistLocked()
}

// Open starts the auto-mark timer: the first ten visible items are marked
// read after a short dwell, unless Close cancels it first.
func (f *Feed) Open() {
	items := f.Notifications()
	if len(items) > autoReadVisible {
		items = items[:autoReadVisible]
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(autoReadDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, id := range ids {
			f.markLocked(id)
		}
	})
}

// Close cancels a pending auto-mark.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// caller holds f.mu
func (f *Feed) markLocked(id string) {
	if _, ok := f.read[id]; ok {
		return
	}
	f.read[id] = struct{}{}
	f.persistLocked()
}

// caller holds f.mu
func (f *Feed) persistLocked() {
	ids := make([]string, 0, len(f.read))
	for id := range f.read {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	_ = f.local.Set(localdata.KeyReadIDs, ids)
}
