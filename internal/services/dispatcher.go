package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"plantpal-backend/internal/database"
	"plantpal-backend/internal/models"
)

const (
	// How long dispatched rows are kept before the cleanup pass purges them
	defaultRetention = 30 * 24 * time.Hour

	// Upper bound on a single gateway call; a timeout counts as a failed
	// send and the reminder stays due for the next run
	defaultSendTimeout = 10 * time.Second
)

// ReminderStore is the slice of the store the dispatcher needs
type ReminderStore interface {
	FindDue(now time.Time) ([]models.DispatchCandidate, error)
	MarkSent(reminderID string, sentAt time.Time) error
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// Dispatcher runs one due-reminder sweep per invocation. Each candidate is
// processed independently: a failed send leaves that row due for the next
// run and never aborts the batch. Delivery is at-least-once; the
// conditional MarkSent keeps the bookkeeping from double-charging.
type Dispatcher struct {
	store       ReminderStore
	expo        PushSender
	fcm         PushSender // optional, nil when Firebase is not configured
	retention   time.Duration
	sendTimeout time.Duration
}

// RunSummary reports what one sweep did
type RunSummary struct {
	Found      int
	Sent       int
	Failed     int
	CleanupRan bool
	Purged     int64
}

func NewDispatcher(store ReminderStore, expo PushSender, fcm PushSender) *Dispatcher {
	return &Dispatcher{
		store:       store,
		expo:        expo,
		fcm:         fcm,
		retention:   defaultRetention,
		sendTimeout: defaultSendTimeout,
	}
}

// Run executes one sweep at the given instant. A store failure on the
// initial query aborts the run before any sends; per-candidate failures
// only show up as counts in the summary.
func (d *Dispatcher) Run(now time.Time) (*RunSummary, error) {
	log.Println("🔔 Starting due-reminder sweep...")

	candidates, err := d.store.FindDue(now)
	if err != nil {
		return nil, fmt.Errorf("due-reminder query failed: %w", err)
	}

	summary := &RunSummary{Found: len(candidates)}
	log.Printf("   Found %d due reminders", summary.Found)

	for _, candidate := range candidates {
		if err := d.dispatchOne(candidate); err != nil {
			log.Printf("❌ Reminder %s: %v", candidate.ID, err)
			summary.Failed++
			continue
		}
		log.Printf("✅ Reminder %s dispatched", candidate.ID)
		summary.Sent++
	}

	// Cleanup runs at most once per day, in the first minutes after local
	// midnight, regardless of the sweep cadence. Its failures never affect
	// the dispatch results above.
	if shouldRunCleanup(now) {
		summary.CleanupRan = true
		purged, err := d.store.DeleteOlderThan(now.Add(-d.retention))
		if err != nil {
			log.Printf("⚠️  Cleanup failed: %v", err)
		} else {
			summary.Purged = purged
			log.Printf("🧹 Cleanup purged %d dispatched reminders older than %s", purged, d.retention)
		}
	}

	log.Printf("🔔 Sweep finished: %d sent, %d failed", summary.Sent, summary.Failed)
	return summary, nil
}

func (d *Dispatcher) dispatchOne(candidate models.DispatchCandidate) error {
	payload := ComposeReminderPayload(
		candidate.ID,
		candidate.UserPlantID,
		candidate.Kind,
		candidate.Message,
		candidate.PlantName(),
	)

	sender, token, err := d.pickSender(candidate)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := sender.Send(ctx, token, payload); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	if err := d.store.MarkSent(candidate.ID, time.Now()); err != nil {
		// Another overlapping run already marked it; the user may get a
		// duplicate push, which the design prefers over a missed one
		if errors.Is(err, database.ErrAlreadySent) {
			log.Printf("   Reminder %s was already marked sent by another run", candidate.ID)
			return nil
		}
		return fmt.Errorf("mark-sent failed: %w", err)
	}

	return nil
}

// pickSender prefers the Expo token; devices that only registered an FCM
// token fall back to Firebase when it is configured.
func (d *Dispatcher) pickSender(candidate models.DispatchCandidate) (PushSender, string, error) {
	if candidate.ExpoPushToken != nil && *candidate.ExpoPushToken != "" {
		return d.expo, *candidate.ExpoPushToken, nil
	}
	if d.fcm != nil && candidate.FCMToken != nil && *candidate.FCMToken != "" {
		return d.fcm, *candidate.FCMToken, nil
	}
	return nil, "", fmt.Errorf("no push token registered for user %s", candidate.UserID)
}

// shouldRunCleanup gates the retention pass to the first five minutes past
// local midnight
func shouldRunCleanup(now time.Time) bool {
	return now.Hour() == 0 && now.Minute() < 5
}
