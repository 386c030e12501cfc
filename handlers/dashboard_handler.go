package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ClassPilot/ClassPilot/database"
	"github.com/ClassPilot/ClassPilot/models"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler { return &DashboardHandler{} }

// GET /api/dashboard/summary
// Rough counts for the dashboard cards.
func (h *DashboardHandler) Summary(c echo.Context) error {
	var (
		cntStudents int64
		cntClasses  int64
		cntGrades   int64
		avgScore    float64
	)

	database.DB.Model(&models.Student{}).Count(&cntStudents)
	database.DB.Model(&models.Class{}).Count(&cntClasses)
	database.DB.Model(&models.Grade{}).Count(&cntGrades)
	database.DB.Model(&models.Grade{}).Select("COALESCE(AVG(score), 0)").Scan(&avgScore)

	return c.JSON(http.StatusOK, map[string]any{
		"students":      cntStudents,
		"classes":       cntClasses,
		"grades":        cntGrades,
		"average_score": avgScore,
	})
}
