package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/ruckboard/backend/internal/api/handlers"
	"github.com/ruckboard/backend/internal/config"
	"github.com/ruckboard/backend/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Seed coach account
	email := os.Getenv("COACH_EMAIL")
	if email == "" {
		email = "coach@ruckboard.local" // Default email
		log.Printf("Using default coach email: %s", email)
	}

	password := os.Getenv("COACH_PASSWORD")
	if password == "" {
		password = "change-me-in-production" // Default password
		log.Printf("WARNING: Using default coach password. Set COACH_PASSWORD env var in production!")
	}

	displayName := os.Getenv("COACH_NAME")
	if displayName == "" {
		displayName = "Head Coach"
	}

	err = handlers.CreateCoachAccount(db, email, displayName, password)
	if err != nil {
		log.Fatalf("Failed to create coach account: %v", err)
	}

	log.Printf("✓ Coach account created/updated successfully")
	log.Printf("  Email: %s", email)
	log.Printf("  Display Name: %s", displayName)
	log.Println("\nYou can now login at /api/v1/auth/login")
}
