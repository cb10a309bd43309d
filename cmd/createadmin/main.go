package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/earlysteps/casetrack/internal/config"
	"github.com/earlysteps/casetrack/internal/database"
	"github.com/earlysteps/casetrack/internal/models"
	"github.com/earlysteps/casetrack/internal/services"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Bootstraps the first admin account, since the API has no unauthenticated
// signup path. Prints the new id and a ready-to-use bearer token.
func main() {
	var name, email, password, envFilename string
	flag.StringVar(&name, "name", "Admin", "admin display name")
	flag.StringVar(&email, "email", "", "admin email (required)")
	flag.StringVar(&password, "password", "", "admin password (required)")
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("both -email and -password are required")
	}

	if envFilename != "" {
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var existing models.User
	err = db.First(&existing, "email = ?", email).Error
	if err == nil {
		log.Fatalf("A user with email %s already exists (id %s)", email, existing.ID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to check for existing user: %v", err)
	}

	admin := models.User{
		Name:            name,
		Email:           email,
		Role:            models.RoleAdmin,
		IsEmailVerified: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	token, err := services.SignToken(cfg.JWTSecret, admin.ID, cfg.JWTExpiry)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Printf("Created admin %s (%s)\n", admin.ID, admin.Email)
	fmt.Printf("Bearer token (expires in %s):\n%s\n", cfg.JWTExpiry, token)
}
