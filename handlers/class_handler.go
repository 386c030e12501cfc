package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ClassPilot/ClassPilot/database"
	"github.com/ClassPilot/ClassPilot/models"
	"github.com/ClassPilot/ClassPilot/validation"
)

type ClassHandler struct{}

func NewClassHandler() *ClassHandler { return &ClassHandler{} }

type enrollPayload struct {
	StudentIDs []uint `json:"student_ids"`
}

func normalizeClass(p *validation.ClassInput) {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Description = strings.TrimSpace(p.Description)
	p.Subject = strings.TrimSpace(p.Subject)
	p.Schedule = strings.TrimSpace(p.Schedule)
}

func applyClass(cl *models.Class, p *validation.ClassInput) {
	cl.Name = p.Name
	cl.Description = p.Description
	cl.Subject = p.Subject
	cl.GradeLevel = p.GradeLevel
	cl.Capacity = p.Capacity
	cl.Schedule = p.Schedule
}

// GET /api/classes
func (h *ClassHandler) List(c echo.Context) error {
	var items []models.Class
	if err := database.DB.Order("id ASC").Find(&items).Error; err != nil {
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}
	return c.JSON(http.StatusOK, items)
}

// POST /api/classes
func (h *ClassHandler) Create(c echo.Context) error {
	var p validation.ClassInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	normalizeClass(&p)
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	var cl models.Class
	applyClass(&cl, &p)
	if err := database.DB.Create(&cl).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, cl)
}

// PUT /api/classes/:id
func (h *ClassHandler) Update(c echo.Context) error {
	id := uintParam(c, "id")
	var existing models.Class
	if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errJSON(c, http.StatusNotFound, "NOT_FOUND")
		}
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}
	var p validation.ClassInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	normalizeClass(&p)
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	applyClass(&existing, &p)
	if err := database.DB.Save(&existing).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, existing)
}

// DELETE /api/classes/:id
func (h *ClassHandler) Delete(c echo.Context) error {
	id := uintParam(c, "id")
	if err := database.DB.Delete(&models.Class{}, "id = ?", id).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	// the class's own join rows go with it
	if err := database.DB.Delete(&models.Enrollment{}, "class_id = ?", id).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /api/classes/:id/students
func (h *ClassHandler) Students(c echo.Context) error {
	id := uintParam(c, "id")
	var items []models.Student
	err := database.DB.
		Joins("JOIN enrollments e ON e.student_id = students.id").
		Where("e.class_id = ?", id).
		Order("e.id ASC").
		Find(&items).Error
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}
	return c.JSON(http.StatusOK, items)
}

// POST /api/classes/:id/students
// Body: {"student_ids": [1,2,3]} — a single batched enrollment call.
func (h *ClassHandler) Enroll(c echo.Context) error {
	id := uintParam(c, "id")
	var cl models.Class
	if err := database.DB.First(&cl, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errJSON(c, http.StatusNotFound, "NOT_FOUND")
		}
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}

	var p enrollPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if len(p.StudentIDs) == 0 {
		return errJSON(c, http.StatusBadRequest, "MISSING_FIELDS")
	}

	// resolve the requested ids first: unknown students are skipped and
	// already-enrolled ones reuse their row, so neither counts against
	// capacity
	type enrollRow struct {
		studentID uint
		existing  uint // non-zero: the id of an already-enrolled row
	}
	rows := make([]enrollRow, 0, len(p.StudentIDs))
	newRows := 0
	for _, sid := range p.StudentIDs {
		var st models.Student
		if err := database.DB.First(&st, "id = ?", sid).Error; err != nil {
			continue // unknown students are skipped, not fatal
		}
		var dup models.Enrollment
		if err := database.DB.Where("class_id = ? AND student_id = ?", id, sid).First(&dup).Error; err == nil {
			rows = append(rows, enrollRow{studentID: sid, existing: dup.ID})
			continue
		}
		rows = append(rows, enrollRow{studentID: sid})
		newRows++
	}

	if cl.Capacity > 0 && newRows > 0 {
		var enrolled int64
		if err := database.DB.Model(&models.Enrollment{}).Where("class_id = ?", id).Count(&enrolled).Error; err != nil {
			return errJSON(c, http.StatusInternalServerError, "DB_COUNT_FAILED")
		}
		if enrolled+int64(newRows) > int64(cl.Capacity) {
			return errJSON(c, http.StatusConflict, "CLASS_FULL")
		}
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		if row.existing != 0 {
			ids = append(ids, row.existing)
			continue
		}
		rec := models.Enrollment{ClassID: id, StudentID: row.studentID}
		if err := database.DB.Create(&rec).Error; err != nil {
			return errJSON(c, http.StatusBadRequest, err.Error())
		}
		ids = append(ids, rec.ID)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"enrollmentIds": ids,
		"message":       "Students enrolled successfully",
	})
}

// DELETE /api/classes/:id/students/:studentId
func (h *ClassHandler) RemoveStudent(c echo.Context) error {
	id := uintParam(c, "id")
	sid := uintParam(c, "studentId")

	res := database.DB.Delete(&models.Enrollment{}, "class_id = ? AND student_id = ?", id, sid)
	if res.Error != nil {
		return errJSON(c, http.StatusBadRequest, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return errJSON(c, http.StatusNotFound, "NOT_FOUND")
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Student removed from class"})
}

// GET /api/classes/:id/grades
func (h *ClassHandler) Grades(c echo.Context) error {
	id := uintParam(c, "id")
	var items []models.Grade
	if err := database.DB.Where("class_id = ?", id).Order("id ASC").Find(&items).Error; err != nil {
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}
	return c.JSON(http.StatusOK, items)
}
