package models

import "time"

// CareReminder is one scheduled care action for one owned plant.
// sent_at is written exactly once, by the dispatch sweep; a null sent_at
// with trigger_at in the past is the definition of "due".
type CareReminder struct {
	ID          string     `json:"id" db:"id"`
	UserPlantID string     `json:"user_plant_id" db:"user_plant_id"`
	Kind        string     `json:"kind" db:"kind"` // "watering", "fertilizing", ... or a custom label
	TriggerAt   time.Time  `json:"trigger_at" db:"trigger_at"`
	Message     *string    `json:"message,omitempty" db:"message"`
	SentAt      *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// DispatchCandidate is a due reminder joined with the owning user's push
// destination and the plant's naming columns. Computed fresh each sweep,
// never persisted.
type DispatchCandidate struct {
	CareReminder
	UserID        string  `db:"user_id"`
	ExpoPushToken *string `db:"expo_push_token"`
	FCMToken      *string `db:"fcm_token"`
	Nickname      *string `db:"nickname"`
	CommonName    *string `db:"common_name"`
}

// PlantName resolves the display name used in the notification body.
func (c *DispatchCandidate) PlantName() string {
	return DisplayName(c.Nickname, c.CommonName)
}
