package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"plantpal-backend/internal/database"
	"plantpal-backend/internal/middleware"
	"plantpal-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

type CreateReminderRequest struct {
	UserPlantID string  `json:"user_plant_id"`
	Kind        string  `json:"kind"`
	TriggerAt   string  `json:"trigger_at"` // RFC3339
	Message     *string `json:"message,omitempty"`
}

// GetReminders lists all reminders across the calling user's plants
func GetReminders(store *database.ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		reminders, err := store.ListForUser(claims.UserID)
		if err != nil {
			http.Error(w, "Failed to fetch reminders", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reminders)
	}
}

// CreateReminder inserts a reminder row and returns it so the device can
// register the matching local notification. The server never schedules
// locally; that is the device's job after this call succeeds.
func CreateReminder(db *sqlx.DB, store *database.ReminderStore, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateReminderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		req.Kind = strings.TrimSpace(req.Kind)
		if req.UserPlantID == "" || req.Kind == "" || req.TriggerAt == "" {
			http.Error(w, "user_plant_id, kind and trigger_at are required", http.StatusBadRequest)
			return
		}

		triggerAt, err := time.Parse(time.RFC3339, req.TriggerAt)
		if err != nil {
			http.Error(w, "trigger_at must be RFC3339", http.StatusBadRequest)
			return
		}

		// The plant must belong to the caller
		var owned bool
		err = db.Get(&owned, "SELECT EXISTS(SELECT 1 FROM user_plants WHERE id = $1 AND user_id = $2)", req.UserPlantID, claims.UserID)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if !owned {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		reminder, err := store.Insert(req.UserPlantID, req.Kind, triggerAt, req.Message)
		if err != nil {
			log.Printf("❌ Failed to create reminder for user %s: %v", claims.UserID, err)
			http.Error(w, "Failed to create reminder", http.StatusInternalServerError)
			return
		}

		hub.BroadcastToUser(claims.UserID, map[string]interface{}{
			"type": "reminder_created",
			"data": reminder,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(reminder)
	}
}

// DeleteReminder removes a reminder row. The device cancels its local
// registration after this call confirms.
func DeleteReminder(db *sqlx.DB, store *database.ReminderStore, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		// Ownership check via the owning plant
		var owned bool
		err := db.Get(&owned, `
			SELECT EXISTS(
				SELECT 1 FROM care_reminders cr
				JOIN user_plants up ON up.id = cr.user_plant_id
				WHERE cr.id = $1 AND up.user_id = $2
			)
		`, id, claims.UserID)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if !owned {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		if err := store.DeleteByID(id); err != nil {
			if errors.Is(err, database.ErrReminderNotFound) {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			http.Error(w, "Failed to delete reminder", http.StatusInternalServerError)
			return
		}

		hub.BroadcastToUser(claims.UserID, map[string]interface{}{
			"type": "reminder_deleted",
			"data": map[string]string{"id": id},
		})

		w.WriteHeader(http.StatusNoContent)
	}
}
