package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ClassPilot/ClassPilot/client"
	"github.com/ClassPilot/ClassPilot/models"
	"github.com/ClassPilot/ClassPilot/validation"
)

// EnrollResult is the server's answer to a batched enrollment call.
type EnrollResult struct {
	EnrollmentIDs []uint `json:"enrollmentIds"`
	Message       string `json:"message"`
}

// ClassStore owns the normalized class collection and the class→students
// secondary index. The index is fetched independently of the student
// collection; roster views resolve against whatever students are loaded.
type ClassStore struct {
	mu      sync.Mutex
	c       *client.Client
	col     collection[models.Class]
	loading bool
	err     string
	gen     uint64

	// classStudents holds the last fetched roster snapshot per class.
	// A mutation invalidates the entry instead of patching it locally.
	classStudents map[uint][]models.Student
	rosterGen     map[uint]uint64
}

func NewClassStore(c *client.Client) *ClassStore {
	return &ClassStore{
		c:             c,
		col:           newCollection[models.Class](),
		classStudents: map[uint][]models.Student{},
		rosterGen:     map[uint]uint64{},
	}
}

// FetchAll replaces the class collection with the server's list;
// last-request-wins via the generation counter.
func (s *ClassStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.gen++
	g := s.gen
	s.mu.Unlock()

	var items []models.Class
	err := s.c.Get(ctx, "/api/classes", &items)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.gen {
		return nil
	}
	s.loading = false
	if err != nil {
		s.err = errMsg(err, "Failed to fetch classes")
		return err
	}
	s.col.replaceAll(items)
	return nil
}

func (s *ClassStore) Create(ctx context.Context, in validation.ClassInput) (models.Class, error) {
	if fields := validation.Struct(&in); fields != nil {
		return models.Class{}, &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var created models.Class
	if err := s.c.Post(ctx, "/api/classes", in, &created); err != nil {
		s.setErr(errMsg(err, "Failed to create class"))
		return models.Class{}, err
	}

	s.mu.Lock()
	s.col.upsert(created)
	s.err = ""
	s.mu.Unlock()
	return created, nil
}

func (s *ClassStore) Update(ctx context.Context, id uint, in validation.ClassInput) (models.Class, error) {
	if fields := validation.Struct(&in); fields != nil {
		return models.Class{}, &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var updated models.Class
	if err := s.c.Put(ctx, fmt.Sprintf("/api/classes/%d", id), in, &updated); err != nil {
		s.setErr(errMsg(err, "Failed to update class"))
		return models.Class{}, err
	}

	s.mu.Lock()
	s.col.upsert(updated)
	s.err = ""
	s.mu.Unlock()
	return updated, nil
}

func (s *ClassStore) Delete(ctx context.Context, id uint) error {
	if err := s.c.Delete(ctx, fmt.Sprintf("/api/classes/%d", id), nil); err != nil {
		s.setErr(errMsg(err, "Failed to delete class"))
		return err
	}
	s.mu.Lock()
	s.col.remove(id)
	delete(s.classStudents, id)
	s.err = ""
	s.mu.Unlock()
	return nil
}

// FetchClassStudents full-replaces the roster snapshot for one class.
func (s *ClassStore) FetchClassStudents(ctx context.Context, classID uint) error {
	s.mu.Lock()
	s.rosterGen[classID]++
	g := s.rosterGen[classID]
	s.mu.Unlock()

	var roster []models.Student
	err := s.c.Get(ctx, fmt.Sprintf("/api/classes/%d/students", classID), &roster)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.rosterGen[classID] {
		return nil
	}
	if err != nil {
		s.err = errMsg(err, "Failed to fetch students")
		return err
	}
	s.classStudents[classID] = roster
	s.err = ""
	return nil
}

// EnrollStudents issues a single batched enrollment call. On success the
// roster snapshot is invalidated; observing the new roster takes a re-fetch,
// since the server may have applied capacity or validation rules the request
// payload cannot predict.
func (s *ClassStore) EnrollStudents(ctx context.Context, classID uint, studentIDs []uint) (EnrollResult, error) {
	body := map[string][]uint{"student_ids": studentIDs}
	var res EnrollResult
	if err := s.c.Post(ctx, fmt.Sprintf("/api/classes/%d/students", classID), body, &res); err != nil {
		s.setErr(errMsg(err, "Failed to enroll students"))
		return EnrollResult{}, err
	}

	s.mu.Lock()
	delete(s.classStudents, classID)
	s.err = ""
	s.mu.Unlock()
	return res, nil
}

// RemoveStudent deletes one enrollment and invalidates the roster snapshot,
// the same discipline every other roster mutation follows.
func (s *ClassStore) RemoveStudent(ctx context.Context, classID, studentID uint) error {
	if err := s.c.Delete(ctx, fmt.Sprintf("/api/classes/%d/students/%d", classID, studentID), nil); err != nil {
		s.setErr(errMsg(err, "Failed to remove student"))
		return err
	}

	s.mu.Lock()
	delete(s.classStudents, classID)
	s.err = ""
	s.mu.Unlock()
	return nil
}

func (s *ClassStore) Items() []models.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.items()
}

func (s *ClassStore) Get(id uint) (models.Class, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.get(id)
}

// Roster returns the cached roster snapshot for a class; ok is false when the
// snapshot is absent or was invalidated by a mutation.
func (s *ClassStore) Roster(classID uint) ([]models.Student, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, ok := s.classStudents[classID]
	return roster, ok
}

// ResolveRoster joins the roster snapshot against the currently loaded
// student collection. Students that no longer resolve are skipped; an empty
// student collection yields an empty join rather than an error.
func (s *ClassStore) ResolveRoster(classID uint, students *StudentStore) []models.Student {
	roster, ok := s.Roster(classID)
	if !ok {
		return nil
	}
	out := make([]models.Student, 0, len(roster))
	for _, snap := range roster {
		if st, ok := students.Get(snap.ID); ok {
			out = append(out, st)
		}
	}
	return out
}

func (s *ClassStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.len()
}

func (s *ClassStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *ClassStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *ClassStore) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}
