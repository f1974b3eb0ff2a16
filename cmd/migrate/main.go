package main

import (
	"log"

	"github.com/plateful/recipe-api/config"
	"github.com/plateful/recipe-api/internal/database"
)

// Applies the schema without starting the API, for deploy pipelines that
// migrate before rolling out.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied")
}
