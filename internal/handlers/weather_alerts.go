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
	"plantpal-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateWeatherAlertRequest struct {
	AlertType string `json:"alert_type"`
	AlertTime string `json:"alert_time"` // RFC3339
	Message   string `json:"message"`
}

type UpdateWeatherAlertRequest struct {
	AlertType *string `json:"alert_type,omitempty"`
	AlertTime *string `json:"alert_time,omitempty"` // RFC3339
	Message   *string `json:"message,omitempty"`
}

// GetWeatherAlerts lists the calling user's alerts, soonest first
func GetWeatherAlerts(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var alerts []models.WeatherAlert
		err := db.Select(&alerts, `
			SELECT id, user_id, alert_type, alert_time, message, created_at
			FROM weather_alerts
			WHERE user_id = $1
			ORDER BY alert_time ASC
		`, claims.UserID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch weather alerts")
			return
		}

		utils.Success(w, alerts)
	}
}

func GetWeatherAlert(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Bad Request")
			return
		}

		var alert models.WeatherAlert
		err := db.Get(&alert, `
			SELECT id, user_id, alert_type, alert_time, message, created_at
			FROM weather_alerts
			WHERE id = $1 AND user_id = $2
		`, id, claims.UserID)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusNotFound, "Not found")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}

		utils.Success(w, alert)
	}
}

func CreateWeatherAlert(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateWeatherAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.AlertType = strings.TrimSpace(req.AlertType)
		req.Message = strings.TrimSpace(req.Message)
		if req.AlertType == "" || req.Message == "" || req.AlertTime == "" {
			utils.Error(w, http.StatusBadRequest, "alert_type, alert_time and message are required")
			return
		}

		alertTime, err := time.Parse(time.RFC3339, req.AlertTime)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "alert_time must be RFC3339")
			return
		}

		alert := models.WeatherAlert{
			ID:        uuid.New().String(),
			UserID:    claims.UserID,
			AlertType: req.AlertType,
			AlertTime: alertTime,
			Message:   req.Message,
			CreatedAt: time.Now(),
		}

		_, err = db.Exec(`
			INSERT INTO weather_alerts (id, user_id, alert_type, alert_time, message, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, alert.ID, alert.UserID, alert.AlertType, alert.AlertTime, alert.Message, alert.CreatedAt)
		if err != nil {
			log.Printf("❌ Failed to create weather alert: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create weather alert")
			return
		}

		utils.JSON(w, http.StatusCreated, alert)
	}
}

func UpdateWeatherAlert(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Bad Request")
			return
		}

		var req UpdateWeatherAlertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var existing models.WeatherAlert
		err := db.Get(&existing, `
			SELECT id, user_id, alert_type, alert_time, message, created_at
			FROM weather_alerts
			WHERE id = $1 AND user_id = $2
		`, id, claims.UserID)
		if err == sql.ErrNoRows {
			utils.Error(w, http.StatusNotFound, "Not found")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Database error")
			return
		}

		if req.AlertType != nil {
			existing.AlertType = strings.TrimSpace(*req.AlertType)
		}
		if req.Message != nil {
			existing.Message = strings.TrimSpace(*req.Message)
		}
		if req.AlertTime != nil {
			alertTime, err := time.Parse(time.RFC3339, *req.AlertTime)
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "alert_time must be RFC3339")
				return
			}
			existing.AlertTime = alertTime
		}
		if existing.AlertType == "" || existing.Message == "" {
			utils.Error(w, http.StatusBadRequest, "alert_type and message cannot be empty")
			return
		}

		_, err = db.Exec(`
			UPDATE weather_alerts
			SET alert_type = $1, alert_time = $2, message = $3
			WHERE id = $4 AND user_id = $5
		`, existing.AlertType, existing.AlertTime, existing.Message, id, claims.UserID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to update weather alert")
			return
		}

		utils.Success(w, existing)
	}
}

func DeleteWeatherAlert(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			utils.Error(w, http.StatusBadRequest, "Bad Request")
			return
		}

		res, err := db.Exec("DELETE FROM weather_alerts WHERE id = $1 AND user_id = $2", id, claims.UserID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to delete weather alert")
			return
		}
		rows, _ := res.RowsAffected()
		if rows == 0 {
			utils.Error(w, http.StatusNotFound, "Not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
