package models

import "time"

type User struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	Password      string    `json:"-" db:"password"` // Never return password in JSON
	Name          string    `json:"name" db:"name"`
	Role          string    `json:"role" db:"role"` // "user" or "admin"
	ProfilePhoto  *string   `json:"profile_photo,omitempty" db:"profile_photo"`
	ExpoPushToken *string   `json:"expo_push_token,omitempty" db:"expo_push_token"`
	FCMToken      *string   `json:"fcm_token,omitempty" db:"fcm_token"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	ProfilePhoto *string   `json:"profile_photo,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		ProfilePhoto: u.ProfilePhoto,
		CreatedAt:    u.CreatedAt,
	}
}
