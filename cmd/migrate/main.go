// Command migrate creates or updates the schema without starting the server.
package main

import (
	"log"

	"jobmarket-backend/internal/config"
	"jobmarket-backend/internal/database"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Tables created.")
}
