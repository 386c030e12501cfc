// scripts/create_teacher.go
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ClassPilot/ClassPilot/config"
	"github.com/ClassPilot/ClassPilot/database"
	"github.com/ClassPilot/ClassPilot/models"
)

// Seeds a teacher account for local development.
func main() {
	cfg := config.Load()
	database.Connect(cfg)

	email := "teacher@classpilot.local"
	password := "changeme"

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existing models.User
	if err := database.DB.Where("email = ?", email).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("teacher account already exists:", email)
		os.Exit(0)
	}

	u := models.User{
		FullName: "Demo Teacher",
		Email:    email,
		Password: string(hashed),
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert teacher: %v", err)
	}

	fmt.Println("teacher account created")
	fmt.Println("   Email:", email)
	fmt.Println("   Password:", password, "(plain, change it later)")
}
