package main

import (
	"fmt"
	"log"
	"os"

	"plantpal-backend/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := database.SeedPlants(db); err != nil {
		log.Fatalf("Plant catalog seeding failed: %v", err)
	}

	// Query and display summary
	var result struct {
		TotalPlants    int `db:"total_plants"`
		TotalUsers     int `db:"total_users"`
		TotalReminders int `db:"total_reminders"`
		UnsentDue      int `db:"unsent_due"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM plants) AS total_plants,
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM care_reminders) AS total_reminders,
			(SELECT COUNT(*) FROM care_reminders WHERE sent_at IS NULL AND trigger_at <= NOW()) AS unsent_due
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Catalog plants:          %d\n", result.TotalPlants)
	fmt.Printf("Users:                   %d\n", result.TotalUsers)
	fmt.Printf("Care reminders:          %d\n", result.TotalReminders)
	fmt.Printf("Currently due (unsent):  %d\n", result.UnsentDue)
	fmt.Println("============================================================")
}
