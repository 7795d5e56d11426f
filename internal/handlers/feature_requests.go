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
	"plantpal-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type CreateFeatureRequestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateFeatureRequestRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"` // admin only
}

type VoteRequest struct {
	VoteType string `json:"vote_type"` // "upvote" or "downvote"
}

// GetFeatureRequests lists feature requests ordered by votes, joined with
// the caller's own vote
func GetFeatureRequests(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		query := `
			SELECT fr.id, fr.user_id, fr.title, fr.description, fr.status,
			       fr.votes_count, fr.created_at, fr.updated_at,
			       v.vote_type AS user_vote_type
			FROM feature_requests fr
			LEFT JOIN feature_request_votes v
				ON v.feature_request_id = fr.id AND v.user_id = $1
		`
		args := []interface{}{claims.UserID}

		if status := r.URL.Query().Get("status"); status != "" {
			query += " WHERE fr.status = $2"
			args = append(args, status)
		}
		query += " ORDER BY fr.votes_count DESC, fr.created_at DESC"

		var requests []models.FeatureRequestWithVote
		if err := db.Select(&requests, query, args...); err != nil {
			http.Error(w, "Failed to fetch feature requests", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(requests)
	}
}

func CreateFeatureRequest(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateFeatureRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		req.Title = strings.TrimSpace(req.Title)
		req.Description = strings.TrimSpace(req.Description)
		if req.Title == "" || req.Description == "" {
			http.Error(w, "Title and description are required", http.StatusBadRequest)
			return
		}

		fr := models.FeatureRequest{
			ID:          uuid.New().String(),
			UserID:      claims.UserID,
			Title:       req.Title,
			Description: req.Description,
			Status:      "pending",
			VotesCount:  0,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}

		_, err := db.Exec(`
			INSERT INTO feature_requests (id, user_id, title, description, status, votes_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, fr.ID, fr.UserID, fr.Title, fr.Description, fr.Status, fr.VotesCount, fr.CreatedAt, fr.UpdatedAt)
		if err != nil {
			log.Printf("❌ Failed to create feature request: %v", err)
			http.Error(w, "Failed to create feature request", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(fr)
	}
}

func UpdateFeatureRequest(db *sqlx.DB) http.HandlerFunc {
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

		var req UpdateFeatureRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		var existing models.FeatureRequest
		err := db.Get(&existing, "SELECT * FROM feature_requests WHERE id = $1", id)
		if err == sql.ErrNoRows {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}

		// Title/description edits are owner-only; status changes are admin-only
		if req.Title != nil || req.Description != nil {
			if existing.UserID != claims.UserID {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			if req.Title != nil {
				existing.Title = strings.TrimSpace(*req.Title)
			}
			if req.Description != nil {
				existing.Description = strings.TrimSpace(*req.Description)
			}
		}
		if req.Status != nil {
			if claims.Role != "admin" {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			existing.Status = *req.Status
		}

		existing.UpdatedAt = time.Now()
		_, err = db.Exec(`
			UPDATE feature_requests
			SET title = $1, description = $2, status = $3, updated_at = $4
			WHERE id = $5
		`, existing.Title, existing.Description, existing.Status, existing.UpdatedAt, id)
		if err != nil {
			http.Error(w, "Failed to update feature request", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(existing)
	}
}

// VoteFeatureRequest records, toggles or switches the caller's vote.
// votes_count is only ever moved by atomic increments inside the same
// transaction as the vote-row write, so concurrent votes cannot lose
// updates.
func VoteFeatureRequest(db *sqlx.DB, hub *websocket.Hub) http.HandlerFunc {
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

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.VoteType != "upvote" && req.VoteType != "downvote" {
			http.Error(w, "vote_type must be upvote or downvote", http.StatusBadRequest)
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			http.Error(w, "Failed to begin transaction", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		var existing models.FeatureRequestVote
		err = tx.Get(&existing, `
			SELECT * FROM feature_request_votes
			WHERE feature_request_id = $1 AND user_id = $2
			FOR UPDATE
		`, id, claims.UserID)

		delta := 0
		switch {
		case err == sql.ErrNoRows:
			// First vote
			if _, err := tx.Exec(`
				INSERT INTO feature_request_votes (id, feature_request_id, user_id, vote_type)
				VALUES ($1, $2, $3, $4)
			`, uuid.New().String(), id, claims.UserID, req.VoteType); err != nil {
				http.Error(w, "Failed to record vote", http.StatusInternalServerError)
				return
			}
			if req.VoteType == "upvote" {
				delta = 1
			} else {
				delta = -1
			}

		case err != nil:
			http.Error(w, "Database error", http.StatusInternalServerError)
			return

		case existing.VoteType == req.VoteType:
			// Same vote again toggles it off
			if _, err := tx.Exec("DELETE FROM feature_request_votes WHERE id = $1", existing.ID); err != nil {
				http.Error(w, "Failed to remove vote", http.StatusInternalServerError)
				return
			}
			if req.VoteType == "upvote" {
				delta = -1
			} else {
				delta = 1
			}

		default:
			// Switching direction swings the counter by two
			if _, err := tx.Exec("UPDATE feature_request_votes SET vote_type = $1 WHERE id = $2", req.VoteType, existing.ID); err != nil {
				http.Error(w, "Failed to update vote", http.StatusInternalServerError)
				return
			}
			if req.VoteType == "upvote" {
				delta = 2
			} else {
				delta = -2
			}
		}

		var newCount int
		err = tx.Get(&newCount, `
			UPDATE feature_requests
			SET votes_count = GREATEST(0, votes_count + $1), updated_at = NOW()
			WHERE id = $2
			RETURNING votes_count
		`, delta, id)
		if err == sql.ErrNoRows {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Failed to update vote count", http.StatusInternalServerError)
			return
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "Failed to commit vote", http.StatusInternalServerError)
			return
		}

		hub.BroadcastToUser(claims.UserID, map[string]interface{}{
			"type": "feature_request_votes",
			"data": map[string]interface{}{"id": id, "votes_count": newCount},
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "votes_count": newCount})
	}
}
