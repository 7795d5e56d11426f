package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"plantpal-backend/internal/middleware"
	"plantpal-backend/pkg/utils"

	"github.com/jmoiron/sqlx"
)

type RegisterDeviceRequest struct {
	ExpoPushToken *string `json:"expo_push_token,omitempty"`
	FCMToken      *string `json:"fcm_token,omitempty"`
}

// RegisterDevice stores the calling user's push destination. The app sends
// its Expo token on every launch; native builds may register an FCM token
// instead. A null field clears the stored token (sign-out on that device).
func RegisterDevice(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req RegisterDeviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		_, err := db.Exec(`
			UPDATE users
			SET expo_push_token = $1, fcm_token = $2, updated_at = NOW()
			WHERE id = $3
		`, req.ExpoPushToken, req.FCMToken, claims.UserID)
		if err != nil {
			log.Printf("❌ Failed to register device for user %s: %v", claims.UserID, err)
			utils.Error(w, http.StatusInternalServerError, "Failed to register device")
			return
		}

		log.Printf("📱 Push destination updated for user %s", claims.UserID)
		utils.Success(w, map[string]bool{"ok": true})
	}
}
