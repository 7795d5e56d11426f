package main

import (
	"log"
	"os"
	"time"

	"plantpal-backend/internal/database"
	"plantpal-backend/internal/services"

	"github.com/joho/godotenv"
)

// The dispatch sweep is invoked on a fixed cadence by an external process
// scheduler (cron or equivalent), once every 5-15 minutes. It takes no
// flags. Exit code 0 means the run completed, even if individual sends
// failed; exit code 1 means the run itself could not proceed.
func main() {
	log.Println("🔔 Starting reminder dispatch run...")
	log.Printf("   Time: %s", time.Now().Format(time.RFC3339))

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Println("❌ DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Printf("❌ Dispatch run failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	store := database.NewReminderStore(db)
	expo := services.NewExpoPushService()

	// FCM is optional; without credentials, FCM-only devices are skipped
	var fcm services.PushSender
	if credsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); credsBase64 != "" {
		fcmService, err := services.NewFCMServiceFromBase64(credsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM: %v (FCM delivery disabled)", err)
		} else {
			fcm = fcmService
		}
	} else if credsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credsFile != "" {
		fcmService, err := services.NewFCMService(credsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM: %v (FCM delivery disabled)", err)
		} else {
			fcm = fcmService
		}
	}

	dispatcher := services.NewDispatcher(store, expo, fcm)

	summary, err := dispatcher.Run(time.Now())
	if err != nil {
		log.Printf("❌ Dispatch run failed: %v", err)
		os.Exit(1)
	}

	log.Println("════════════════════════════════════════")
	log.Println("DISPATCH RUN SUMMARY")
	log.Println("════════════════════════════════════════")
	log.Printf("Due reminders found:   %d", summary.Found)
	log.Printf("Pushes sent:           %d", summary.Sent)
	log.Printf("Pushes failed:         %d", summary.Failed)
	if summary.CleanupRan {
		log.Printf("Old reminders purged:  %d", summary.Purged)
	}
	log.Println("════════════════════════════════════════")
	log.Println("✅ Dispatch run completed")
}
