package store

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/ClassPilot/ClassPilot/models"
	"github.com/ClassPilot/ClassPilot/validation"
)

// testServer is an in-memory stand-in for the REST backend. It keeps the same
// response shapes as the real handlers so the stores cannot tell the
// difference.
type testServer struct {
	mu     sync.Mutex
	nextID uint

	students    map[uint]models.Student
	classes     map[uint]models.Class
	enrollments map[uint]models.Enrollment
	grades      map[uint]models.Grade

	order struct {
		students []uint
		classes  []uint
		enrolls  []uint
		grades   []uint
	}

	// failNext forces the next matching request to fail with this status.
	failNext int

	srv *httptest.Server
}

func newTestServer() *testServer {
	ts := &testServer{
		nextID:      0,
		students:    map[uint]models.Student{},
		classes:     map[uint]models.Class{},
		enrollments: map[uint]models.Enrollment{},
		grades:      map[uint]models.Grade{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/students", ts.listStudents)
	mux.HandleFunc("POST /api/students", ts.createStudent)
	mux.HandleFunc("PUT /api/students/{id}", ts.updateStudent)
	mux.HandleFunc("DELETE /api/students/{id}", ts.deleteStudent)
	mux.HandleFunc("GET /api/students/{id}/grades", ts.studentGrades)

	mux.HandleFunc("GET /api/classes", ts.listClasses)
	mux.HandleFunc("POST /api/classes", ts.createClass)
	mux.HandleFunc("PUT /api/classes/{id}", ts.updateClass)
	mux.HandleFunc("DELETE /api/classes/{id}", ts.deleteClass)
	mux.HandleFunc("GET /api/classes/{id}/students", ts.roster)
	mux.HandleFunc("POST /api/classes/{id}/students", ts.enroll)
	mux.HandleFunc("DELETE /api/classes/{id}/students/{studentId}", ts.unenroll)
	mux.HandleFunc("GET /api/classes/{id}/grades", ts.classGrades)

	mux.HandleFunc("POST /api/grades", ts.createGrade)
	mux.HandleFunc("PUT /api/grades/{id}", ts.updateGrade)
	mux.HandleFunc("DELETE /api/grades/{id}", ts.deleteGrade)

	ts.srv = httptest.NewServer(mux)
	return ts
}

func (ts *testServer) URL() string { return ts.srv.URL }
func (ts *testServer) close()      { ts.srv.Close() }

func (ts *testServer) id() uint {
	ts.nextID++
	return ts.nextID
}

// seedStudent inserts a student directly, bypassing the API, so tests can
// control ids and timestamps.
func (ts *testServer) seedStudent(s models.Student) models.Student {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if s.ID == 0 {
		s.ID = ts.id()
	}
	ts.students[s.ID] = s
	ts.order.students = append(ts.order.students, s.ID)
	return s
}

func (ts *testServer) failOnce(status int) {
	ts.mu.Lock()
	ts.failNext = status
	ts.mu.Unlock()
}

// takeFailure consumes a pending forced failure.
func (ts *testServer) takeFailure(w http.ResponseWriter) bool {
	ts.mu.Lock()
	status := ts.failNext
	ts.failNext = 0
	ts.mu.Unlock()
	if status == 0 {
		return false
	}
	writeJSON(w, status, map[string]any{"error": "FORCED_FAILURE", "message": "forced failure"})
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request, name string) uint {
	n, _ := strconv.ParseUint(r.PathValue(name), 10, 32)
	return uint(n)
}

/* ---------- students ---------- */

func (ts *testServer) listStudents(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]models.Student, 0, len(ts.order.students))
	for _, id := range ts.order.students {
		if s, ok := ts.students[id]; ok {
			out = append(out, s)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (ts *testServer) createStudent(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	var in validation.StudentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	s := models.Student{
		ID:       ts.id(),
		FullName: in.FullName, Age: in.Age, Grade: in.Grade,
		Gender: in.Gender, Email: in.Email,
		ParentEmail: in.ParentEmail, ParentPhone: in.ParentPhone,
		Notes:     in.Notes,
		CreatedAt: time.Now(),
	}
	ts.students[s.ID] = s
	ts.order.students = append(ts.order.students, s.ID)
	writeJSON(w, http.StatusCreated, s)
}

func (ts *testServer) updateStudent(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	var in validation.StudentInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	s, ok := ts.students[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "NOT_FOUND", "message": "Resource not found"})
		return
	}
	s.FullName, s.Age, s.Grade = in.FullName, in.Age, in.Grade
	s.Gender, s.Email, s.Notes = in.Gender, in.Email, in.Notes
	s.ParentEmail, s.ParentPhone = in.ParentEmail, in.ParentPhone
	s.UpdatedAt = time.Now()
	ts.students[id] = s
	writeJSON(w, http.StatusOK, s)
}

func (ts *testServer) deleteStudent(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	ts.mu.Lock()
	delete(ts.students, id)
	ts.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (ts *testServer) studentGrades(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := []models.Grade{}
	for _, gid := range ts.order.grades {
		if g, ok := ts.grades[gid]; ok && g.StudentID == id {
			out = append(out, g)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

/* ---------- classes ---------- */

func (ts *testServer) listClasses(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]models.Class, 0, len(ts.order.classes))
	for _, id := range ts.order.classes {
		if c, ok := ts.classes[id]; ok {
			out = append(out, c)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (ts *testServer) createClass(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	var in validation.ClassInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	c := models.Class{
		ID:   ts.id(),
		Name: in.Name, Description: in.Description, Subject: in.Subject,
		GradeLevel: in.GradeLevel, Capacity: in.Capacity, Schedule: in.Schedule,
		CreatedAt: time.Now(),
	}
	ts.classes[c.ID] = c
	ts.order.classes = append(ts.order.classes, c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (ts *testServer) updateClass(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	var in validation.ClassInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	c, ok := ts.classes[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "NOT_FOUND", "message": "Resource not found"})
		return
	}
	c.Name, c.Description, c.Subject = in.Name, in.Description, in.Subject
	c.GradeLevel, c.Capacity, c.Schedule = in.GradeLevel, in.Capacity, in.Schedule
	ts.classes[id] = c
	writeJSON(w, http.StatusOK, c)
}

func (ts *testServer) deleteClass(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	ts.mu.Lock()
	delete(ts.classes, id)
	for eid, e := range ts.enrollments {
		if e.ClassID == id {
			delete(ts.enrollments, eid)
		}
	}
	ts.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (ts *testServer) roster(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := []models.Student{}
	for _, eid := range ts.order.enrolls {
		e, ok := ts.enrollments[eid]
		if !ok || e.ClassID != id {
			continue
		}
		// the roster keeps stale snapshots even when the student is gone,
		// matching the documented no-cascade behavior
		if s, ok := ts.students[e.StudentID]; ok {
			out = append(out, s)
		} else {
			out = append(out, models.Student{ID: e.StudentID})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (ts *testServer) enroll(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	var p struct {
		StudentIDs []uint `json:"student_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || len(p.StudentIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "MISSING_FIELDS"})
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	cl, ok := ts.classes[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "NOT_FOUND", "message": "Resource not found"})
		return
	}
	existing := map[uint]uint{} // studentID → enrollment row id
	for _, e := range ts.enrollments {
		if e.ClassID == id {
			existing[e.StudentID] = e.ID
		}
	}
	// unknown students and re-enrollments create no rows, so they don't
	// count against capacity
	newRows := 0
	for _, sid := range p.StudentIDs {
		if _, ok := ts.students[sid]; !ok {
			continue
		}
		if _, ok := existing[sid]; ok {
			continue
		}
		newRows++
	}
	if cl.Capacity > 0 && len(existing)+newRows > cl.Capacity {
		writeJSON(w, http.StatusConflict, map[string]any{"error": "CLASS_FULL", "message": "Class is at capacity"})
		return
	}
	ids := []uint{}
	for _, sid := range p.StudentIDs {
		if _, ok := ts.students[sid]; !ok {
			continue
		}
		if eid, ok := existing[sid]; ok {
			ids = append(ids, eid)
			continue
		}
		e := models.Enrollment{ID: ts.id(), ClassID: id, StudentID: sid, CreatedAt: time.Now()}
		ts.enrollments[e.ID] = e
		ts.order.enrolls = append(ts.order.enrolls, e.ID)
		ids = append(ids, e.ID)
	}
	writeJSON(w, http.StatusOK, map[string]any{"enrollmentIds": ids, "message": "Students enrolled successfully"})
}

func (ts *testServer) unenroll(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	sid := pathID(r, "studentId")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for eid, e := range ts.enrollments {
		if e.ClassID == id && e.StudentID == sid {
			delete(ts.enrollments, eid)
			writeJSON(w, http.StatusOK, map[string]any{"message": "Student removed from class"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "NOT_FOUND", "message": "Resource not found"})
}

func (ts *testServer) classGrades(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := []models.Grade{}
	for _, gid := range ts.order.grades {
		if g, ok := ts.grades[gid]; ok && g.ClassID == id {
			out = append(out, g)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

/* ---------- grades ---------- */

func (ts *testServer) createGrade(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	var in validation.GradeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "INVALID_PAYLOAD"})
		return
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	g := models.Grade{
		ID:        ts.id(),
		StudentID: in.StudentID, ClassID: in.ClassID,
		Assignment: in.Assignment, Score: in.Score,
		CreatedAt: time.Now(),
	}
	ts.grades[g.ID] = g
	ts.order.grades = append(ts.order.grades, g.ID)
	writeJSON(w, http.StatusCreated, g)
}

func (ts *testServer) updateGrade(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	var in validation.GradeInput
	_ = json.NewDecoder(r.Body).Decode(&in)
	ts.mu.Lock()
	defer ts.mu.Unlock()
	g, ok := ts.grades[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "NOT_FOUND", "message": "Resource not found"})
		return
	}
	g.Assignment, g.Score = in.Assignment, in.Score
	ts.grades[id] = g
	writeJSON(w, http.StatusOK, g)
}

func (ts *testServer) deleteGrade(w http.ResponseWriter, r *http.Request) {
	if ts.takeFailure(w) {
		return
	}
	id := pathID(r, "id")
	ts.mu.Lock()
	delete(ts.grades, id)
	ts.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "message": "Grade deleted"})
}
