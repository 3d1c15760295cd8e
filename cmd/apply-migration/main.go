package main

import (
	"fmt"
	"log"
	"os"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/config"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <migration_file.sql>", os.Args[0])
	}

	migrationFile := os.Args[1]
	sqlContent, err := os.ReadFile(migrationFile)
	if err != nil {
		log.Fatalf("Failed to read migration file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if _, err := db.Exec(string(sqlContent)); err != nil {
		log.Fatalf("Failed to apply migration: %v", err)
	}

	fmt.Printf("Applied %s to %s\n", migrationFile, cfg.Database.Database)
}
