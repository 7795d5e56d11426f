package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"plantpal-backend/internal/database"
	"plantpal-backend/internal/models"
)

type fakeStore struct {
	candidates []models.DispatchCandidate
	findErr    error

	markedSent  []string
	markSentErr error

	deleteCutoff *time.Time
	deleteErr    error
	deleted      int64
}

func (f *fakeStore) FindDue(now time.Time) ([]models.DispatchCandidate, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.candidates, nil
}

func (f *fakeStore) MarkSent(reminderID string, sentAt time.Time) error {
	if f.markSentErr != nil {
		return f.markSentErr
	}
	f.markedSent = append(f.markedSent, reminderID)
	return nil
}

func (f *fakeStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	f.deleteCutoff = &cutoff
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	return f.deleted, nil
}

type fakeSender struct {
	sent       []string // tokens, in send order
	failTokens map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, token string, payload PushPayload) error {
	if f.failTokens[token] {
		return errors.New("gateway unavailable")
	}
	f.sent = append(f.sent, token)
	return nil
}

func candidate(id, token string) models.DispatchCandidate {
	return models.DispatchCandidate{
		CareReminder: models.CareReminder{
			ID:          id,
			UserPlantID: "up-" + id,
			Kind:        "watering",
			TriggerAt:   time.Now().Add(-time.Minute),
		},
		UserID:        "user-1",
		ExpoPushToken: strPtr(token),
		CommonName:    strPtr("Ficus"),
	}
}

// midday keeps the cleanup gate closed in tests that are not about cleanup
var midday = time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)

func TestRunSendsAndMarks(t *testing.T) {
	store := &fakeStore{candidates: []models.DispatchCandidate{
		candidate("rem-1", "ExponentPushToken[aaa]"),
		candidate("rem-2", "ExponentPushToken[bbb]"),
	}}
	expo := &fakeSender{}
	d := NewDispatcher(store, expo, nil)

	summary, err := d.Run(midday)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Found != 2 || summary.Sent != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want Found=2 Sent=2 Failed=0", summary)
	}
	if len(store.markedSent) != 2 {
		t.Errorf("MarkSent called for %v, want both reminders", store.markedSent)
	}
}

func TestRunIsolatesPerReminderFailures(t *testing.T) {
	store := &fakeStore{candidates: []models.DispatchCandidate{
		candidate("rem-1", "token-ok-1"),
		candidate("rem-2", "token-bad"),
		candidate("rem-3", "token-ok-2"),
	}}
	expo := &fakeSender{failTokens: map[string]bool{"token-bad": true}}
	d := NewDispatcher(store, expo, nil)

	summary, err := d.Run(midday)
	if err != nil {
		t.Fatalf("Run() error: %v (per-reminder failures must not abort the run)", err)
	}
	if summary.Sent != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want Sent=2 Failed=1", summary)
	}
	// The failed reminder stays unmarked so the next run retries it
	for _, id := range store.markedSent {
		if id == "rem-2" {
			t.Error("failed reminder rem-2 was marked sent")
		}
	}
	if len(store.markedSent) != 2 {
		t.Errorf("MarkSent called for %v, want exactly the two delivered reminders", store.markedSent)
	}
}

func TestRunAbortsWhenQueryFails(t *testing.T) {
	store := &fakeStore{findErr: errors.New("connection refused")}
	d := NewDispatcher(store, &fakeSender{}, nil)

	if _, err := d.Run(midday); err == nil {
		t.Fatal("Run() returned nil error when the due query failed")
	}
}

func TestRunMissingTokenCountsAsFailure(t *testing.T) {
	noToken := candidate("rem-1", "")
	noToken.ExpoPushToken = nil
	store := &fakeStore{candidates: []models.DispatchCandidate{noToken}}
	d := NewDispatcher(store, &fakeSender{}, nil)

	summary, err := d.Run(midday)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Failed != 1 || summary.Sent != 0 {
		t.Errorf("summary = %+v, want Failed=1 Sent=0", summary)
	}
	if len(store.markedSent) != 0 {
		t.Errorf("MarkSent called for %v, want none", store.markedSent)
	}
}

func TestRunAlreadySentIsBenign(t *testing.T) {
	store := &fakeStore{
		candidates:  []models.DispatchCandidate{candidate("rem-1", "token-1")},
		markSentErr: database.ErrAlreadySent,
	}
	d := NewDispatcher(store, &fakeSender{}, nil)

	summary, err := d.Run(midday)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Sent != 1 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want Sent=1 Failed=0 (overlapping run already marked it)", summary)
	}
}

func TestRunFallsBackToFCM(t *testing.T) {
	c := candidate("rem-1", "")
	c.ExpoPushToken = nil
	c.FCMToken = strPtr("fcm-token-1")
	store := &fakeStore{candidates: []models.DispatchCandidate{c}}
	expo := &fakeSender{}
	fcm := &fakeSender{}
	d := NewDispatcher(store, expo, fcm)

	summary, err := d.Run(midday)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Sent != 1 {
		t.Fatalf("summary = %+v, want Sent=1", summary)
	}
	if len(expo.sent) != 0 {
		t.Errorf("expo sender used for an FCM-only device: %v", expo.sent)
	}
	if len(fcm.sent) != 1 || fcm.sent[0] != "fcm-token-1" {
		t.Errorf("fcm sender sent %v, want [fcm-token-1]", fcm.sent)
	}
}

func TestRunCleanupGatedToMidnightWindow(t *testing.T) {
	justPastMidnight := time.Date(2026, 8, 28, 0, 2, 0, 0, time.UTC)

	store := &fakeStore{deleted: 7}
	d := NewDispatcher(store, &fakeSender{}, nil)

	summary, err := d.Run(justPastMidnight)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !summary.CleanupRan {
		t.Error("cleanup did not run in the minutes after midnight")
	}
	if summary.Purged != 7 {
		t.Errorf("Purged = %d, want 7", summary.Purged)
	}
	if store.deleteCutoff == nil {
		t.Fatal("DeleteOlderThan was not called")
	}
	wantCutoff := justPastMidnight.Add(-30 * 24 * time.Hour)
	if !store.deleteCutoff.Equal(wantCutoff) {
		t.Errorf("cleanup cutoff = %v, want %v", store.deleteCutoff, wantCutoff)
	}
}

func TestRunCleanupSkippedOutsideWindow(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, &fakeSender{}, nil)

	summary, err := d.Run(midday)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.CleanupRan {
		t.Error("cleanup ran outside the post-midnight window")
	}
	if store.deleteCutoff != nil {
		t.Error("DeleteOlderThan was called outside the post-midnight window")
	}
}

func TestRunCleanupFailureDoesNotFailRun(t *testing.T) {
	justPastMidnight := time.Date(2026, 8, 28, 0, 4, 0, 0, time.UTC)

	store := &fakeStore{
		candidates: []models.DispatchCandidate{candidate("rem-1", "token-1")},
		deleteErr:  errors.New("lock timeout"),
	}
	d := NewDispatcher(store, &fakeSender{}, nil)

	summary, err := d.Run(justPastMidnight)
	if err != nil {
		t.Fatalf("Run() error: %v (cleanup failures must not fail the run)", err)
	}
	if summary.Sent != 1 {
		t.Errorf("summary = %+v, want Sent=1", summary)
	}
	if !summary.CleanupRan {
		t.Error("CleanupRan = false, want true (the attempt counts)")
	}
	if summary.Purged != 0 {
		t.Errorf("Purged = %d, want 0 on cleanup failure", summary.Purged)
	}
}

func TestShouldRunCleanup(t *testing.T) {
	tests := []struct {
		now  time.Time
		want bool
	}{
		{time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2026, 8, 28, 0, 4, 59, 0, time.UTC), true},
		{time.Date(2026, 8, 28, 0, 5, 0, 0, time.UTC), false},
		{time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC), false},
		{time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		if got := shouldRunCleanup(tt.now); got != tt.want {
			t.Errorf("shouldRunCleanup(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}
