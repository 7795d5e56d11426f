package models

import "time"

type SupportTicket struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Priority  string    `json:"priority" db:"priority"` // low, medium, high
	Status    string    `json:"status" db:"status"`     // open, in_progress, closed
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
