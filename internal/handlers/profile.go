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

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	ProfilePhoto *string `json:"profile_photo,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdateProfile lets the signed-in user change their display name and
// profile photo. Email and role are not editable here.
func UpdateProfile(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
			utils.Error(w, http.StatusBadRequest, "Name cannot be empty")
			return
		}
		if req.Name == nil && req.ProfilePhoto == nil {
			utils.Error(w, http.StatusBadRequest, "Nothing to update")
			return
		}

		var user models.User
		if err := db.Get(&user, "SELECT * FROM users WHERE id = $1", claims.UserID); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}

		if req.Name != nil {
			user.Name = strings.TrimSpace(*req.Name)
		}
		if req.ProfilePhoto != nil {
			user.ProfilePhoto = req.ProfilePhoto
		}
		user.UpdatedAt = time.Now()

		_, err := db.Exec(`
			UPDATE users
			SET name = $1, profile_photo = $2, updated_at = $3
			WHERE id = $4
		`, user.Name, user.ProfilePhoto, user.UpdatedAt, claims.UserID)
		if err != nil {
			log.Printf("❌ Failed to update profile for user %s: %v", claims.UserID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}

		utils.Success(w, user.ToUserResponse())
	}
}

// ChangePassword verifies the current password before accepting a new one,
// like the login path does.
func ChangePassword(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req ChangePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.CurrentPassword == "" {
			utils.Error(w, http.StatusBadRequest, "Current password is required")
			return
		}
		if len(req.NewPassword) < 8 {
			utils.Error(w, http.StatusBadRequest, "New password must be at least 8 characters")
			return
		}

		var user models.User
		if err := db.Get(&user, "SELECT * FROM users WHERE id = $1", claims.UserID); err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to load profile")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			log.Printf("❌ Password change rejected for user %s: current password mismatch", claims.UserID)
			utils.Error(w, http.StatusUnauthorized, "Current password is incorrect")
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		_, err = db.Exec(`
			UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2
		`, string(hashed), claims.UserID)
		if err != nil {
			log.Printf("❌ Failed to change password for user %s: %v", claims.UserID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to change password")
			return
		}

		log.Printf("🔐 Password changed for user %s", claims.UserID)
		utils.Success(w, map[string]bool{"ok": true})
	}
}
