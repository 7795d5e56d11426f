package models

import "time"

// WeatherAlert warns a user about upcoming conditions that threaten their
// plants (frost, heatwave, storm). Surfaced on the app's dashboard; not
// pushed through the reminder pipeline.
type WeatherAlert struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	AlertType string    `json:"alert_type" db:"alert_type"`
	AlertTime time.Time `json:"alert_time" db:"alert_time"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
