package main

import (
	"log"

	"english-tutor-be/internal/config"
	"english-tutor-be/internal/model"
	"english-tutor-be/pkg/database"
)

func main() {
	// 1. Load Configuration (DATABASE_URL, SQLITE_PATH)
	cfg := config.Load()

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Pre-Migration: Extensions (Postgres only)
	if !database.IsSQLite(cfg.Database.Connection) {
		log.Println("Step 1: Setting up Extensions...")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			log.Printf("Warn: Failed to create extension: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate archive tables
	models := model.All()
	log.Printf("Step 2: Running AutoMigrate for %d Tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Success: Archive migration completed via GORM.")
}
