package main

import (
	"log"
	"net/http"
	"os"

	"plantpal-backend/internal/database"
	"plantpal-backend/internal/handlers"
	"plantpal-backend/internal/middleware"
	"plantpal-backend/internal/services"
	"plantpal-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🌱 PLANTPAL BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("❌ FATAL: DATABASE_URL environment variable is required")
	}
	if os.Getenv("APP_JWT_SECRET") == "" {
		log.Fatal("❌ FATAL: APP_JWT_SECRET environment variable is required")
	}

	// Connect to database
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ FATAL: Database migrations failed: %v", err)
	}

	// Seed database
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("❌ FATAL: User seeding failed: %v", err)
	}
	if err := database.SeedPlants(db); err != nil {
		log.Fatalf("❌ FATAL: Plant catalog seeding failed: %v", err)
	}

	reminderStore := database.NewReminderStore(db)

	// Initialize Firebase Cloud Messaging for devices with native tokens.
	// Supports both file path and base64-encoded credentials (for Railway/cloud deployments).
	// The server itself never pushes; this only verifies configuration early.
	fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64")
	if fcmCredsBase64 != "" {
		if _, err := services.NewFCMServiceFromBase64(fcmCredsBase64); err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (FCM delivery disabled)", err)
		} else {
			log.Println("✅ Firebase Cloud Messaging credentials verified")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/register", handlers.Register(db))
	r.Post("/api/auth/login", handlers.Login(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth)

		// Species catalog
		r.Get("/plants", handlers.GetPlants(db))
		r.Get("/plants/{id}", handlers.GetPlant(db))

		// Owned plants
		r.Get("/user-plants", handlers.GetUserPlants(db))
		r.Post("/user-plants", handlers.CreateUserPlant(db))
		r.Patch("/user-plants/{id}", handlers.UpdateUserPlant(db))
		r.Post("/user-plants/{id}/water", handlers.LogWatering(db))
		r.Delete("/user-plants/{id}", handlers.DeleteUserPlant(db))

		// Care reminders
		r.Get("/reminders", handlers.GetReminders(reminderStore))
		r.Post("/reminders", handlers.CreateReminder(db, reminderStore, wsHub))
		r.Delete("/reminders/{id}", handlers.DeleteReminder(db, reminderStore, wsHub))

		// Push destination registration
		r.Post("/devices", handlers.RegisterDevice(db))

		// Profile
		r.Patch("/profile", handlers.UpdateProfile(db))
		r.Post("/profile/password", handlers.ChangePassword(db))

		// Weather alerts
		r.Get("/weather-alerts", handlers.GetWeatherAlerts(db))
		r.Get("/weather-alerts/{id}", handlers.GetWeatherAlert(db))
		r.Post("/weather-alerts", handlers.CreateWeatherAlert(db))
		r.Patch("/weather-alerts/{id}", handlers.UpdateWeatherAlert(db))
		r.Delete("/weather-alerts/{id}", handlers.DeleteWeatherAlert(db))

		// Feature requests
		r.Get("/feature-requests", handlers.GetFeatureRequests(db))
		r.Post("/feature-requests", handlers.CreateFeatureRequest(db))
		r.Patch("/feature-requests/{id}", handlers.UpdateFeatureRequest(db))
		r.Post("/feature-requests/{id}/vote", handlers.VoteFeatureRequest(db, wsHub))

		// Support tickets
		r.Get("/support-tickets", handlers.GetSupportTickets(db))
		r.Post("/support-tickets", handlers.CreateSupportTicket(db))

		// Admin-only routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole("admin"))
			r.Get("/support-tickets", handlers.GetAllSupportTickets(db))
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Printf("🚀 Server listening on port %s", port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}
