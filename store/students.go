package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ClassPilot/ClassPilot/client"
	"github.com/ClassPilot/ClassPilot/models"
	"github.com/ClassPilot/ClassPilot/validation"
)

// StudentStore owns the normalized student collection.
type StudentStore struct {
	mu      sync.Mutex
	c       *client.Client
	col     collection[models.Student]
	loading bool
	err     string
	gen     uint64 // fetch generation; stale responses are discarded
}

func NewStudentStore(c *client.Client) *StudentStore {
	return &StudentStore{c: c, col: newCollection[models.Student]()}
}

// FetchAll replaces the whole collection with the server's list. A fetch that
// was superseded by a later one drops its response (last-request-wins).
func (s *StudentStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.gen++
	g := s.gen
	s.mu.Unlock()

	var items []models.Student
	err := s.c.Get(ctx, "/api/students", &items)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.gen {
		return nil // superseded
	}
	s.loading = false
	if err != nil {
		s.err = errMsg(err, "Failed to fetch students")
		return err
	}
	s.col.replaceAll(items)
	return nil
}

// Create validates the input client-side, then appends the server-assigned
// object on success. On failure the collection is unchanged.
func (s *StudentStore) Create(ctx context.Context, in validation.StudentInput) (models.Student, error) {
	if fields := validation.Struct(&in); fields != nil {
		return models.Student{}, &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var created models.Student
	if err := s.c.Post(ctx, "/api/students", in, &created); err != nil {
		s.setErr(errMsg(err, "Failed to create student"))
		return models.Student{}, err
	}

	s.mu.Lock()
	s.col.upsert(created)
	s.err = ""
	s.mu.Unlock()
	return created, nil
}

// Update replaces the matching entry with the server's returned object. The
// authoritative object is inserted even when the local id was stale, so the
// collection never silently drops a write the server accepted.
func (s *StudentStore) Update(ctx context.Context, id uint, in validation.StudentInput) (models.Student, error) {
	if fields := validation.Struct(&in); fields != nil {
		return models.Student{}, &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var updated models.Student
	if err := s.c.Put(ctx, fmt.Sprintf("/api/students/%d", id), in, &updated); err != nil {
		s.setErr(errMsg(err, "Failed to update student"))
		return models.Student{}, err
	}

	s.mu.Lock()
	s.col.upsert(updated)
	s.err = ""
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the entry by id. Dependent rosters and grades are not
// touched; views skip identifiers that no longer resolve.
func (s *StudentStore) Delete(ctx context.Context, id uint) error {
	if err := s.c.Delete(ctx, fmt.Sprintf("/api/students/%d", id), nil); err != nil {
		s.setErr(errMsg(err, "Failed to delete student"))
		return err
	}
	s.mu.Lock()
	s.col.remove(id)
	s.err = ""
	s.mu.Unlock()
	return nil
}

// Items returns the collection in order.
func (s *StudentStore) Items() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.items()
}

// Get resolves a student id against whatever is currently loaded.
func (s *StudentStore) Get(id uint) (models.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.get(id)
}

// Tail returns the last n students by collection order, used by the
// notification feed as an approximation of recency.
func (s *StudentStore) Tail(n int) []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.col.items()
	if len(items) > n {
		items = items[len(items)-n:]
	}
	return items
}

func (s *StudentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.len()
}

func (s *StudentStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *StudentStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *StudentStore) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}
