package scheduler

import (
	"log"
	"sync"
	"time"

	"plantpal-backend/internal/models"
	"plantpal-backend/internal/services"
)

// ReminderScheduler keeps the device's local-notification registrations in
// step with the signed-in user's reminders. It owns the mapping from a
// reminder id to the platform handle; nothing here touches the server-side
// store. The UI calls Schedule after a confirmed insert and Cancel after a
// confirmed delete.
type ReminderScheduler struct {
	notifier LocalNotifier

	mu      sync.Mutex
	handles map[string]string // reminder id -> platform handle
}

func New(notifier LocalNotifier) *ReminderScheduler {
	return &ReminderScheduler{
		notifier: notifier,
		handles:  make(map[string]string),
	}
}

// Schedule registers a delayed local notification for a future reminder.
// Reminders already due are not scheduled locally; they are left for the
// dispatch sweep, and Schedule reports ok=false. A second Schedule for the
// same reminder id replaces the earlier registration, so at most one is
// ever active per id.
func (s *ReminderScheduler) Schedule(reminder models.CareReminder, plantDisplayName string) (string, bool) {
	delaySeconds := int64(time.Until(reminder.TriggerAt).Seconds())
	if delaySeconds <= 0 {
		log.Printf("⏭️  Reminder %s trigger time already passed, leaving it for the dispatch sweep", reminder.ID)
		return "", false
	}

	payload := services.ComposeReminderPayload(
		reminder.ID,
		reminder.UserPlantID,
		reminder.Kind,
		reminder.Message,
		plantDisplayName,
	)

	// Replace any earlier registration for this reminder before creating
	// a new one
	s.mu.Lock()
	prior, hadPrior := s.handles[reminder.ID]
	if hadPrior {
		delete(s.handles, reminder.ID)
	}
	s.mu.Unlock()

	if hadPrior {
		if err := s.notifier.Cancel(prior); err != nil {
			log.Printf("⚠️  Failed to cancel prior registration for reminder %s: %v", reminder.ID, err)
		}
	}

	handle, err := s.notifier.RegisterDelayed(payload.Title, payload.Body, payload.Data, delaySeconds)
	if err != nil {
		// Permission denied and platform failures both degrade the same
		// way: the reminder still exists server-side for the sweep
		log.Printf("⚠️  Could not schedule local notification for reminder %s: %v", reminder.ID, err)
		return "", false
	}

	s.mu.Lock()
	s.handles[reminder.ID] = handle
	s.mu.Unlock()

	log.Printf("📅 Scheduled local notification %s for reminder %s (%ds from now)", handle, reminder.ID, delaySeconds)
	return handle, true
}

// Cancel removes the local registration for a reminder id, if one exists.
// Calling it for an unknown id is a no-op.
func (s *ReminderScheduler) Cancel(reminderID string) {
	s.mu.Lock()
	handle, ok := s.handles[reminderID]
	if ok {
		delete(s.handles, reminderID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	if err := s.notifier.Cancel(handle); err != nil {
		log.Printf("⚠️  Failed to cancel local notification for reminder %s: %v", reminderID, err)
		return
	}
	log.Printf("🗑️  Cancelled local notification for reminder %s", reminderID)
}

// CancelAll clears every registration this process created. Used on sign-out.
func (s *ReminderScheduler) CancelAll() {
	s.mu.Lock()
	s.handles = make(map[string]string)
	s.mu.Unlock()

	if err := s.notifier.CancelAll(); err != nil {
		log.Printf("⚠️  Failed to cancel all local notifications: %v", err)
		return
	}
	log.Println("🗑️  Cancelled all local notifications")
}

// ListScheduled reports the platform's currently pending notifications.
// Diagnostics only; reflects a point-in-time query.
func (s *ReminderScheduler) ListScheduled() ([]PendingNotification, error) {
	return s.notifier.ListPending()
}
