package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ClassPilot/ClassPilot/config"
	"github.com/ClassPilot/ClassPilot/database"
	"github.com/ClassPilot/ClassPilot/routes"
)

func main() {
	cfg := config.Load()

	// connect early so a missing DB fails fast
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
