package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/orgball2608/vehicle-listing-feed/internal/migrations"
	"github.com/orgball2608/vehicle-listing-feed/pkg/config"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "internal/migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|status|reset|version|create <name>]")
	}

	command := os.Args[1]

	// create only writes a file, no database needed
	if command == "create" {
		if len(os.Args) < 3 {
			log.Fatal("Usage: migrate create <name>")
		}
		if err := goose.Create(nil, migrationsDir, os.Args[2], "go"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		return
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	switch command {
	case "up":
		if err := migrations.Up(ctx, db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down", "status", "reset", "version":
		if err := migrations.Run(ctx, db, command); err != nil {
			log.Fatalf("Failed to run %s: %v", command, err)
		}
	default:
		log.Fatalf("Unknown command: %s", command)
	}
}
