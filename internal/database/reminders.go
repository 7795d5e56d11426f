package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"plantpal-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrReminderNotFound means the reminder row no longer exists
	ErrReminderNotFound = errors.New("reminder not found")

	// ErrAlreadySent means sent_at was already set; it is never overwritten
	ErrAlreadySent = errors.New("reminder already marked sent")
)

// ReminderStore owns all reads and writes against care_reminders, so the
// dispatcher and the handlers stay free of query shape.
type ReminderStore struct {
	db *sqlx.DB
}

func NewReminderStore(db *sqlx.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

// FindDue returns every unsent reminder whose trigger time has passed,
// joined with the owning user's push tokens and the plant's naming columns.
// The join is done here in one query rather than composed ad hoc by callers.
func (s *ReminderStore) FindDue(now time.Time) ([]models.DispatchCandidate, error) {
	var candidates []models.DispatchCandidate
	query := `
		SELECT cr.id, cr.user_plant_id, cr.kind, cr.trigger_at, cr.message, cr.sent_at, cr.created_at,
		       up.user_id, up.nickname,
		       p.common_name,
		       u.expo_push_token, u.fcm_token
		FROM care_reminders cr
		JOIN user_plants up ON up.id = cr.user_plant_id
		JOIN plants p ON p.id = up.plant_id
		JOIN users u ON u.id = up.user_id
		WHERE cr.trigger_at <= $1 AND cr.sent_at IS NULL
		ORDER BY cr.trigger_at ASC
	`

	err := s.db.Select(&candidates, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}

	return candidates, nil
}

// MarkSent sets sent_at exactly once. The WHERE clause makes the write
// conditional on sent_at still being NULL, so overlapping sweeps cannot
// overwrite an earlier mark.
func (s *ReminderStore) MarkSent(reminderID string, sentAt time.Time) error {
	res, err := s.db.Exec(`
		UPDATE care_reminders
		SET sent_at = $1
		WHERE id = $2 AND sent_at IS NULL
	`, sentAt, reminderID)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	// Zero rows: either the row is gone or another run beat us to it
	var exists bool
	if err := s.db.Get(&exists, "SELECT EXISTS(SELECT 1 FROM care_reminders WHERE id = $1)", reminderID); err != nil {
		return fmt.Errorf("failed to check reminder existence: %w", err)
	}
	if !exists {
		return ErrReminderNotFound
	}
	return ErrAlreadySent
}

// DeleteOlderThan purges dispatched reminders whose sent_at predates the
// cutoff. Rows with sent_at == NULL are never touched.
func (s *ReminderStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec("DELETE FROM care_reminders WHERE sent_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old reminders: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows, nil
}

// Insert creates a reminder row and returns it with its assigned id.
func (s *ReminderStore) Insert(userPlantID, kind string, triggerAt time.Time, message *string) (*models.CareReminder, error) {
	reminder := models.CareReminder{
		ID:          uuid.New().String(),
		UserPlantID: userPlantID,
		Kind:        kind,
		TriggerAt:   triggerAt,
		Message:     message,
		CreatedAt:   time.Now(),
	}

	_, err := s.db.Exec(`
		INSERT INTO care_reminders (id, user_plant_id, kind, trigger_at, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, reminder.ID, reminder.UserPlantID, reminder.Kind, reminder.TriggerAt, reminder.Message, reminder.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reminder: %w", err)
	}

	return &reminder, nil
}

// DeleteByID removes a reminder row
func (s *ReminderStore) DeleteByID(reminderID string) error {
	res, err := s.db.Exec("DELETE FROM care_reminders WHERE id = $1", reminderID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrReminderNotFound
	}
	return nil
}

// GetByID fetches a single reminder
func (s *ReminderStore) GetByID(reminderID string) (*models.CareReminder, error) {
	var reminder models.CareReminder
	err := s.db.Get(&reminder, `
		SELECT id, user_plant_id, kind, trigger_at, message, sent_at, created_at
		FROM care_reminders WHERE id = $1
	`, reminderID)
	if err == sql.ErrNoRows {
		return nil, ErrReminderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}

// ListForUser returns all reminders for plants owned by the given user
func (s *ReminderStore) ListForUser(userID string) ([]models.CareReminder, error) {
	var reminders []models.CareReminder
	err := s.db.Select(&reminders, `
		SELECT cr.id, cr.user_plant_id, cr.kind, cr.trigger_at, cr.message, cr.sent_at, cr.created_at
		FROM care_reminders cr
		JOIN user_plants up ON up.id = cr.user_plant_id
		WHERE up.user_id = $1
		ORDER BY cr.trigger_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}
