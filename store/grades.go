package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ClassPilot/ClassPilot/client"
	"github.com/ClassPilot/ClassPilot/models"
	"github.com/ClassPilot/ClassPilot/validation"
)

// GradeStore owns a single normalized grade map. Per-class and per-student
// views are derived on every read, never cached, so a freshly created grade
// is visible under its class immediately.
type GradeStore struct {
	mu      sync.Mutex
	c       *client.Client
	col     collection[models.Grade]
	loading bool
	err     string

	// per-scope fetch generations; a superseded response is discarded
	classGen   map[uint]uint64
	studentGen map[uint]uint64
}

func NewGradeStore(c *client.Client) *GradeStore {
	return &GradeStore{
		c:          c,
		col:        newCollection[models.Grade](),
		classGen:   map[uint]uint64{},
		studentGen: map[uint]uint64{},
	}
}

// FetchForClass merges the server's grade list for one class into the
// normalized map: entries for that class absent from the response are
// dropped, everything returned replaces by id. Grades of other classes are
// untouched.
func (s *GradeStore) FetchForClass(ctx context.Context, classID uint) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.classGen[classID]++
	g := s.classGen[classID]
	s.mu.Unlock()

	var items []models.Grade
	err := s.c.Get(ctx, fmt.Sprintf("/api/classes/%d/grades", classID), &items)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.classGen[classID] {
		return nil // superseded
	}
	s.loading = false
	if err != nil {
		s.err = errMsg(err, "Failed to fetch grades")
		return err
	}
	s.mergeScoped(items, func(g models.Grade) bool { return g.ClassID == classID })
	return nil
}

// FetchForStudent is the student-scoped counterpart of FetchForClass.
func (s *GradeStore) FetchForStudent(ctx context.Context, studentID uint) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.studentGen[studentID]++
	g := s.studentGen[studentID]
	s.mu.Unlock()

	var items []models.Grade
	err := s.c.Get(ctx, fmt.Sprintf("/api/students/%d/grades", studentID), &items)

	s.mu.Lock()
	defer s.mu.Unlock()
	if g != s.studentGen[studentID] {
		return nil // superseded
	}
	s.loading = false
	if err != nil {
		s.err = errMsg(err, "Failed to fetch grades")
		return err
	}
	s.mergeScoped(items, func(g models.Grade) bool { return g.StudentID == studentID })
	return nil
}

// caller holds s.mu; inScope selects the slice of the map the response is
// authoritative for.
func (s *GradeStore) mergeScoped(items []models.Grade, inScope func(models.Grade) bool) {
	present := make(map[uint]struct{}, len(items))
	for _, g := range items {
		present[g.ID] = struct{}{}
	}
	for _, g := range s.col.items() {
		if inScope(g) {
			if _, ok := present[g.ID]; !ok {
				s.col.remove(g.ID)
			}
		}
	}
	for _, g := range items {
		s.col.upsert(g)
	}
}

func (s *GradeStore) Create(ctx context.Context, in validation.GradeInput) (models.Grade, error) {
	if fields := validation.Struct(&in); fields != nil {
		return models.Grade{}, &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var created models.Grade
	if err := s.c.Post(ctx, "/api/grades", in, &created); err != nil {
		s.setErr(errMsg(err, "Failed to create grade"))
		return models.Grade{}, err
	}

	s.mu.Lock()
	s.col.upsert(created)
	s.err = ""
	s.mu.Unlock()
	return created, nil
}

func (s *GradeStore) Update(ctx context.Context, id uint, in validation.GradeInput) (models.Grade, error) {
	if fields := validation.Struct(&in); fields != nil {
		return models.Grade{}, &client.APIError{Code: "VALIDATION_ERROR", Message: "Validation failed", Fields: fields}
	}

	var updated models.Grade
	if err := s.c.Put(ctx, fmt.Sprintf("/api/grades/%d", id), in, &updated); err != nil {
		s.setErr(errMsg(err, "Failed to update grade"))
		return models.Grade{}, err
	}

	s.mu.Lock()
	s.col.upsert(updated)
	s.err = ""
	s.mu.Unlock()
	return updated, nil
}

func (s *GradeStore) Delete(ctx context.Context, id uint) error {
	if err := s.c.Delete(ctx, fmt.Sprintf("/api/grades/%d", id), nil); err != nil {
		s.setErr(errMsg(err, "Failed to delete grade"))
		return err
	}
	s.mu.Lock()
	s.col.remove(id)
	s.err = ""
	s.mu.Unlock()
	return nil
}

// All returns every loaded grade in order.
func (s *GradeStore) All() []models.Grade {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.items()
}

// ForClass is a derived view, recomputed on every call.
func (s *GradeStore) ForClass(classID uint) []models.Grade {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Grade
	for _, g := range s.col.items() {
		if g.ClassID == classID {
			out = append(out, g)
		}
	}
	return out
}

// ForStudent is a derived view, recomputed on every call.
func (s *GradeStore) ForStudent(studentID uint) []models.Grade {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Grade
	for _, g := range s.col.items() {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out
}

// ResolvedForClass filters the class view down to grades whose student still
// resolves in the loaded student collection. Orphaned grades are skipped, not
// rendered.
func (s *GradeStore) ResolvedForClass(classID uint, students *StudentStore) []models.Grade {
	var out []models.Grade
	for _, g := range s.ForClass(classID) {
		if _, ok := students.Get(g.StudentID); ok {
			out = append(out, g)
		}
	}
	return out
}

func (s *GradeStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *GradeStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *GradeStore) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}
