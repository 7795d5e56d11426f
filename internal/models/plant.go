package models

import "time"

// Plant is one entry in the species catalog
type Plant struct {
	ID                    string  `json:"id" db:"id"`
	CommonName            string  `json:"common_name" db:"common_name"`
	ScientificName        string  `json:"scientific_name" db:"scientific_name"`
	WateringFrequencyDays int     `json:"watering_frequency_days" db:"watering_frequency_days"`
	Sunlight              string  `json:"sunlight" db:"sunlight"` // "low", "medium", "bright"
	CareNotes             *string `json:"care_notes,omitempty" db:"care_notes"`
}

// UserPlant is a plant owned by a user (the species catalog row stays shared)
type UserPlant struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	PlantID      string     `json:"plant_id" db:"plant_id"`
	Nickname     *string    `json:"nickname,omitempty" db:"nickname"`
	AcquiredDate *time.Time `json:"acquired_date,omitempty" db:"acquired_date"`
	LastWatered  *time.Time `json:"last_watered,omitempty" db:"last_watered"`
	Notes        *string    `json:"notes,omitempty" db:"notes"`
	ImageURL     *string    `json:"image_url,omitempty" db:"image_url"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// UserPlantResponse is a user plant joined with its catalog entry
type UserPlantResponse struct {
	UserPlant
	CommonName     string `json:"common_name" db:"common_name"`
	ScientificName string `json:"scientific_name" db:"scientific_name"`
	DisplayName    string `json:"display_name"`
}

// DisplayName resolves what to call a plant in notifications and lists:
// nickname first, then the species common name, then a generic fallback.
func DisplayName(nickname, commonName *string) string {
	if nickname != nil && *nickname != "" {
		return *nickname
	}
	if commonName != nil && *commonName != "" {
		return *commonName
	}
	return "Plant"
}
