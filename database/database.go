package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ClassPilot/ClassPilot/config"
	"github.com/ClassPilot/ClassPilot/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Class{},
		&models.Enrollment{},
		&models.Grade{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
