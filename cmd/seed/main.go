// Command seed populates the database with demo data for development.
package main

import (
	"log"

	"adotapet/internal/bootstrap"
	"adotapet/internal/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{SeedDemoData: true}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
