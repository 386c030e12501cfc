package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/ClassPilot/ClassPilot/config"
	"github.com/ClassPilot/ClassPilot/handlers"
	"github.com/ClassPilot/ClassPilot/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	std := handlers.NewStudentHandler()
	cls := handlers.NewClassHandler()
	grd := handlers.NewGradeHandler()
	dash := handlers.NewDashboardHandler()

	e.GET("/healthz", handlers.Health)

	api := e.Group("/api")

	// ===== Public Auth =====
	api.POST("/auth/login", auth.Login)
	api.POST("/auth/register", auth.Register)

	// ===== Protected =====
	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	priv := api.Group("", authMW)

	priv.GET("/auth/me", auth.Me)
	priv.PUT("/auth/profile", auth.UpdateProfile)
	priv.PUT("/auth/password", auth.ChangePassword)
	priv.DELETE("/auth/account", auth.DeleteAccount)

	priv.GET("/students", std.List)
	priv.POST("/students", std.Create)
	priv.PUT("/students/:id", std.Update)
	priv.DELETE("/students/:id", std.Delete)
	priv.GET("/students/:id/grades", std.Grades)

	priv.GET("/classes", cls.List)
	priv.POST("/classes", cls.Create)
	priv.PUT("/classes/:id", cls.Update)
	priv.DELETE("/classes/:id", cls.Delete)

	priv.GET("/classes/:id/students", cls.Students)
	priv.POST("/classes/:id/students", cls.Enroll)
	priv.DELETE("/classes/:id/students/:studentId", cls.RemoveStudent)
	priv.GET("/classes/:id/grades", cls.Grades)

	priv.POST("/grades", grd.Create)
	priv.PUT("/grades/:id", grd.Update)
	priv.DELETE("/grades/:id", grd.Delete)

	priv.GET("/dashboard/summary", dash.Summary)
}
