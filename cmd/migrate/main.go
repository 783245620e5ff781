package main

import (
	"log"

	"ai-resume-be/internal/config"
	"ai-resume-be/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Running migration...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Error: %v", err)
	}
	log.Println("✅ Success: Database migration completed.")
}
