package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Println("🔌 DATABASE CONNECTION ATTEMPT")
	log.Printf("   📍 Database URL length: %d characters", len(dbURL))
	log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		log.Printf("❌ DATABASE CONNECTION FAILED: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		log.Printf("❌ DATABASE PING FAILED: %v", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL CHECK(role IN ('user', 'admin')),
			profile_photo TEXT,
			expo_push_token TEXT,
			fcm_token TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Create plants table (shared species catalog)
		`CREATE TABLE IF NOT EXISTS plants (
			id TEXT PRIMARY KEY,
			common_name TEXT NOT NULL,
			scientific_name TEXT NOT NULL,
			watering_frequency_days INT NOT NULL DEFAULT 7,
			sunlight TEXT NOT NULL DEFAULT 'medium' CHECK(sunlight IN ('low', 'medium', 'bright')),
			care_notes TEXT
		)`,

		// Create user_plants table (plants a user actually owns)
		`CREATE TABLE IF NOT EXISTS user_plants (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			plant_id TEXT NOT NULL,
			nickname TEXT,
			acquired_date TIMESTAMPTZ,
			last_watered TIMESTAMPTZ,
			notes TEXT,
			image_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (plant_id) REFERENCES plants(id)
		)`,

		// Create care_reminders table
		// sent_at IS NULL combined with trigger_at in the past means "due"
		`CREATE TABLE IF NOT EXISTS care_reminders (
			id TEXT PRIMARY KEY,
			user_plant_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			trigger_at TIMESTAMPTZ NOT NULL,
			message TEXT,
			sent_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			FOREIGN KEY (user_plant_id) REFERENCES user_plants(id) ON DELETE CASCADE
		)`,

		// Create feature_requests table
		`CREATE TABLE IF NOT EXISTS feature_requests (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'under_review', 'in_progress', 'completed', 'rejected')),
			votes_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create feature_request_votes table (one vote per user per request)
		`CREATE TABLE IF NOT EXISTS feature_request_votes (
			id TEXT PRIMARY KEY,
			feature_request_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			vote_type TEXT NOT NULL CHECK(vote_type IN ('upvote', 'downvote')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(feature_request_id, user_id),
			FOREIGN KEY (feature_request_id) REFERENCES feature_requests(id) ON DELETE CASCADE,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create weather_alerts table (dashboard warnings, per user)
		`CREATE TABLE IF NOT EXISTS weather_alerts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			alert_type TEXT NOT NULL,
			alert_time TIMESTAMPTZ NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create support_tickets table
		`CREATE TABLE IF NOT EXISTS support_tickets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'medium' CHECK(priority IN ('low', 'medium', 'high')),
			status TEXT NOT NULL DEFAULT 'open' CHECK(status IN ('open', 'in_progress', 'closed')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_user_plants_user_id ON user_plants(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_care_reminders_user_plant_id ON care_reminders(user_plant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_feature_requests_votes ON feature_requests(votes_count DESC, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_feature_request_votes_user ON feature_request_votes(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_support_tickets_user_id ON support_tickets(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_weather_alerts_user_id ON weather_alerts(user_id)`,

		// Partial index so the due scan only ever touches unsent rows
		`CREATE INDEX IF NOT EXISTS idx_care_reminders_due ON care_reminders(trigger_at) WHERE sent_at IS NULL`,

		// Partial index for the retention cleanup of dispatched rows
		`CREATE INDEX IF NOT EXISTS idx_care_reminders_sent_at ON care_reminders(sent_at) WHERE sent_at IS NOT NULL`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Printf("✅ Applied %d migrations", len(migrations))
	return nil
}
