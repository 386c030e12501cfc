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

type GradeHandler struct{}

func NewGradeHandler() *GradeHandler { return &GradeHandler{} }

// POST /api/grades
func (h *GradeHandler) Create(c echo.Context) error {
	var p validation.GradeInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.Assignment = strings.TrimSpace(p.Assignment)
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	// the (student, class) pair must exist
	var st models.Student
	if err := database.DB.First(&st, "id = ?", p.StudentID).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, "UNKNOWN_STUDENT")
	}
	var cl models.Class
	if err := database.DB.First(&cl, "id = ?", p.ClassID).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, "UNKNOWN_CLASS")
	}

	g := models.Grade{
		StudentID:  p.StudentID,
		ClassID:    p.ClassID,
		Assignment: p.Assignment,
		Score:      p.Score,
	}
	if err := database.DB.Create(&g).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, g)
}

// PUT /api/grades/:id
func (h *GradeHandler) Update(c echo.Context) error {
	id := uintParam(c, "id")
	var existing models.Grade
	if err := database.DB.First(&existing, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errJSON(c, http.StatusNotFound, "NOT_FOUND")
		}
		return errJSON(c, http.StatusInternalServerError, "DB_QUERY_FAILED")
	}
	var p validation.GradeInput
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.Assignment = strings.TrimSpace(p.Assignment)
	if fields := validation.Struct(&p); fields != nil {
		return validationJSON(c, fields)
	}

	// a grade never moves between (student, class) pairs
	existing.Assignment = p.Assignment
	existing.Score = p.Score
	if err := database.DB.Save(&existing).Error; err != nil {
		return errJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, existing)
}

// DELETE /api/grades/:id
func (h *GradeHandler) Delete(c echo.Context) error {
	id := uintParam(c, "id")
	res := database.DB.Delete(&models.Grade{}, "id = ?", id)
	if res.Error != nil {
		return errJSON(c, http.StatusBadRequest, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return errJSON(c, http.StatusNotFound, "NOT_FOUND")
	}
	return c.JSON(http.StatusOK, map[string]any{"id": id, "message": "Grade deleted"})
}
