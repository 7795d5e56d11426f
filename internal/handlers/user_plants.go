package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"plantpal-backend/internal/middleware"
	"plantpal-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateUserPlantRequest struct {
	PlantID      string  `json:"plant_id"`
	Nickname     *string `json:"nickname,omitempty"`
	AcquiredDate *string `json:"acquired_date,omitempty"` // RFC3339
	Notes        *string `json:"notes,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
}

type UpdateUserPlantRequest struct {
	Nickname *string `json:"nickname,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// GetUserPlants returns the calling user's plants joined with the catalog
func GetUserPlants(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var plants []models.UserPlantResponse
		err := db.Select(&plants, `
			SELECT up.id, up.user_id, up.plant_id, up.nickname, up.acquired_date,
			       up.last_watered, up.notes, up.image_url, up.created_at,
			       p.common_name, p.scientific_name
			FROM user_plants up
			JOIN plants p ON p.id = up.plant_id
			WHERE up.user_id = $1
			ORDER BY up.created_at DESC
		`, claims.UserID)
		if err != nil {
			http.Error(w, "Failed to fetch plants", http.StatusInternalServerError)
			return
		}

		for i := range plants {
			plants[i].DisplayName = models.DisplayName(plants[i].Nickname, &plants[i].CommonName)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(plants)
	}
}

func CreateUserPlant(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateUserPlantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.PlantID) == "" {
			http.Error(w, "plant_id is required", http.StatusBadRequest)
			return
		}

		// Make sure the catalog entry exists
		var exists bool
		if err := db.Get(&exists, "SELECT EXISTS(SELECT 1 FROM plants WHERE id = $1)", req.PlantID); err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if !exists {
			http.Error(w, "Unknown plant_id", http.StatusBadRequest)
			return
		}

		var acquired *time.Time
		if req.AcquiredDate != nil {
			if parsed, err := time.Parse(time.RFC3339, *req.AcquiredDate); err == nil {
				acquired = &parsed
			}
		}

		plant := models.UserPlant{
			ID:           uuid.New().String(),
			UserID:       claims.UserID,
			PlantID:      req.PlantID,
			Nickname:     req.Nickname,
			AcquiredDate: acquired,
			Notes:        req.Notes,
			ImageURL:     req.ImageURL,
			CreatedAt:    time.Now(),
		}

		_, err := db.Exec(`
			INSERT INTO user_plants (id, user_id, plant_id, nickname, acquired_date, notes, image_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, plant.ID, plant.UserID, plant.PlantID, plant.Nickname, plant.AcquiredDate, plant.Notes, plant.ImageURL, plant.CreatedAt)
		if err != nil {
			log.Printf("❌ Failed to add plant for user %s: %v", claims.UserID, err)
			http.Error(w, "Failed to add plant", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(plant)
	}
}

func UpdateUserPlant(db *sqlx.DB) http.HandlerFunc {
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

		var req UpdateUserPlantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var existing models.UserPlant
		err := db.Get(&existing, "SELECT * FROM user_plants WHERE id = $1 AND user_id = $2", id, claims.UserID)
		if err == sql.ErrNoRows {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		if req.Nickname != nil {
			existing.Nickname = req.Nickname
		}
		if req.Notes != nil {
			existing.Notes = req.Notes
		}
		if req.ImageURL != nil {
			existing.ImageURL = req.ImageURL
		}

		_, err = db.Exec(`
			UPDATE user_plants
			SET nickname = $1, notes = $2, image_url = $3
			WHERE id = $4 AND user_id = $5
		`, existing.Nickname, existing.Notes, existing.ImageURL, id, claims.UserID)
		if err != nil {
			http.Error(w, "Failed to update plant", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(existing)
	}
}

// LogWatering stamps last_watered on an owned plant
func LogWatering(db *sqlx.DB) http.HandlerFunc {
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

		now := time.Now()
		res, err := db.Exec(`
			UPDATE user_plants SET last_watered = $1 WHERE id = $2 AND user_id = $3
		`, now, id, claims.UserID)
		if err != nil {
			http.Error(w, "Failed to log watering", http.StatusInternalServerError)
			return
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "last_watered": now})
	}
}

func DeleteUserPlant(db *sqlx.DB) http.HandlerFunc {
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

		// Reminder rows for this plant go with it (ON DELETE CASCADE); the
		// device cancels its local registrations when the UI confirms
		res, err := db.Exec("DELETE FROM user_plants WHERE id = $1 AND user_id = $2", id, claims.UserID)
		if err != nil {
			http.Error(w, "Failed to delete plant", http.StatusInternalServerError)
			return
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
