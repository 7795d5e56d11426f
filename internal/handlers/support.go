package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"plantpal-backend/internal/middleware"
	"plantpal-backend/internal/models"
	"plantpal-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateSupportTicketRequest struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority,omitempty"`
}

func CreateSupportTicket(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req CreateSupportTicketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		req.Title = strings.TrimSpace(req.Title)
		req.Message = strings.TrimSpace(req.Message)
		if req.Title == "" || req.Message == "" {
			utils.Error(w, http.StatusBadRequest, "Title and message are required")
			return
		}
		if req.Priority == "" {
			req.Priority = "medium"
		}
		if req.Priority != "low" && req.Priority != "medium" && req.Priority != "high" {
			utils.Error(w, http.StatusBadRequest, "priority must be low, medium or high")
			return
		}

		ticket := models.SupportTicket{
			ID:        uuid.New().String(),
			UserID:    claims.UserID,
			Title:     req.Title,
			Message:   req.Message,
			Priority:  req.Priority,
			Status:    "open",
			CreatedAt: time.Now(),
		}

		_, err := db.Exec(`
			INSERT INTO support_tickets (id, user_id, title, message, priority, status, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, ticket.ID, ticket.UserID, ticket.Title, ticket.Message, ticket.Priority, ticket.Status, ticket.CreatedAt)
		if err != nil {
			log.Printf("❌ Failed to create support ticket: %v", err)
			utils.Error(w, http.StatusInternalServerError, "Failed to create support ticket")
			return
		}

		utils.JSON(w, http.StatusCreated, ticket)
	}
}

// GetAllSupportTickets lists every ticket across users, newest first.
// Admin-only; mounted behind the role middleware.
func GetAllSupportTickets(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `
			SELECT id, user_id, title, message, priority, status, created_at
			FROM support_tickets
		`
		args := []interface{}{}
		if status := r.URL.Query().Get("status"); status != "" {
			query += " WHERE status = $1"
			args = append(args, status)
		}
		query += " ORDER BY created_at DESC"

		var tickets []models.SupportTicket
		if err := db.Select(&tickets, query, args...); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch support tickets")
			return
		}

		utils.Success(w, tickets)
	}
}

func GetSupportTickets(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var tickets []models.SupportTicket
		err := db.Select(&tickets, `
			SELECT id, user_id, title, message, priority, status, created_at
			FROM support_tickets
			WHERE user_id = $1
			ORDER BY created_at DESC
		`, claims.UserID)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to fetch support tickets")
			return
		}

		utils.Success(w, tickets)
	}
}
