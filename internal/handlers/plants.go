package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"plantpal-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

// GetPlants returns the shared species catalog
func GetPlants(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var plants []models.Plant
		err := db.Select(&plants, `
			SELECT id, common_name, scientific_name, watering_frequency_days, sunlight, care_notes
			FROM plants
			ORDER BY common_name ASC
		`)
		if err != nil {
			http.Error(w, "Failed to fetch plants", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(plants)
	}
}

func GetPlant(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		var plant models.Plant
		err := db.Get(&plant, `
			SELECT id, common_name, scientific_name, watering_frequency_days, sunlight, care_notes
			FROM plants WHERE id = $1
		`, id)
		if err == sql.ErrNoRows {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(plant)
	}
}
