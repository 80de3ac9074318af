package main

import (
	"fmt"
	"log"
	"os"

	"fleetpanda-backend/internal/database"

	"github.com/joho/godotenv"
)

// Standalone migrate-and-seed tool for fresh environments. The server
// runs the same migrations on boot; this exists for CI databases and
// local resets.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations completed successfully!")

	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedFleet(db); err != nil {
		log.Fatalf("Fleet seeding failed: %v", err)
	}
	log.Println("Seeding completed successfully!")

	// Query and display summary
	var result struct {
		Users     int `db:"users"`
		Hubs      int `db:"hubs"`
		Terminals int `db:"terminals"`
		Products  int `db:"products"`
		Drivers   int `db:"drivers"`
		Vehicles  int `db:"vehicles"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM hubs) AS hubs,
			(SELECT COUNT(*) FROM terminals) AS terminals,
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM drivers) AS drivers,
			(SELECT COUNT(*) FROM vehicles) AS vehicles
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Users:       %d\n", result.Users)
	fmt.Printf("Hubs:        %d\n", result.Hubs)
	fmt.Printf("Terminals:   %d\n", result.Terminals)
	fmt.Printf("Products:    %d\n", result.Products)
	fmt.Printf("Drivers:     %d\n", result.Drivers)
	fmt.Printf("Vehicles:    %d\n", result.Vehicles)
	fmt.Println("============================================================")
}
