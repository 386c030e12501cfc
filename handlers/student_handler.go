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

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

func normalizeStudent(p *validation.StudentInput) {
	p.FullName = strings.Join(strings.Fields(p.FullName), " ")
	p.Gender = strings.TrimSpace(p.Gender)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.ParentEmail = strings.TrimSpace(strings.ToLower(p.ParentEmail))
	p.ParentPhone = strings.TrimSpace(p.ParentPhone)
	p.Notes = strings.TrimSpace(p.Notes)
}

func applyStudent(s *models.Student, p *validation.StudentInput) {
	s.FullName = p.FullName
	s.Age = p.Age
	s.Grade = p.Grade
	s.Gender = p.Gender
	s.Email = p.Email
	s.ParentEmail = p.ParentEmail
	s.ParentPhone = p.ParentPhone
	s.Notes = p.Notes
}

// GET /api/students
func (h *StudentHandler) List(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))

	var items []models.Student
	tx := database.DB.Model(&models.Student{})
	if q != "" {
		tx = tx.Where("full_name ILIKE ?", "%"+q+"%")
	}
	if err := tx.Order("id ASC").Find(&items).Error; err != nil {
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}
	return c.JSON(http.StatusOK, items)
}

// POST /api/students
func (h *StudentHandler) Create(c echo.Context) error {
	var p validation.StudentInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	normalizeStudent(&p)
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	var s models.Student
	applyStudent(&s, &p)
	if err := database.DB.Create(&s).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /api/students/:id
func (h *StudentHandler) Update(c echo.Context) error {
	id := uintParam(c, "id")
	var existing models.Student
	if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errJSON(c, http.StatusNotFound, "NOT_FOUND")
		}
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}
	var p validation.StudentInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	normalizeStudent(&p)
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	applyStudent(&existing, &p)
	if err := database.DB.Save(&existing).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, existing)
}

// DELETE /api/students/:id
//
// Enrollment and grade rows referencing the student are left in place; clients
// resolve them against their own student collection and skip unresolved ids.
func (h *StudentHandler) Delete(c echo.Context) error {
	id := uintParam(c, "id")
	if err := database.DB.Delete(&models.Student{}, "id = ?", id).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /api/students/:id/grades
func (h *StudentHandler) Grades(c echo.Context) error {
	id := uintParam(c, "id")
	var items []models.Grade
	if err := database.DB.Where("student_id = ?", id).Order("id ASC").Find(&items).Error; err != nil {
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}
	return c.JSON(http.StatusOK, items)
}
