package main

import (
	"fmt"
	"log"

	"github.com/pageza/recipe-buddy/backend/config"
	"github.com/pageza/recipe-buddy/backend/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.UserStore == config.StoreFile {
		log.Fatalf("USER_STORE=%s has no schema to migrate; use sqlite or postgres", cfg.UserStore)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	fmt.Println("All migrations applied successfully.")
}
