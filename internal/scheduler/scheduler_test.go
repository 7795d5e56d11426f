package scheduler

import (
	"fmt"
	"testing"
	"time"

	"plantpal-backend/internal/models"
)

// fakeNotifier records registrations in memory the way the platform would
type fakeNotifier struct {
	nextHandle int
	pending    map[string]PendingNotification

	registerErr error
	cancelled   []string
	cancelAlls  int
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{pending: make(map[string]PendingNotification)}
}

func (f *fakeNotifier) RegisterDelayed(title, body string, data map[string]string, delaySeconds int64) (string, error) {
	if f.registerErr != nil {
		return "", f.registerErr
	}
	f.nextHandle++
	handle := fmt.Sprintf("handle-%d", f.nextHandle)
	f.pending[handle] = PendingNotification{Handle: handle, Title: title, Body: body, Data: data}
	return handle, nil
}

func (f *fakeNotifier) Cancel(handle string) error {
	f.cancelled = append(f.cancelled, handle)
	delete(f.pending, handle)
	return nil
}

func (f *fakeNotifier) CancelAll() error {
	f.cancelAlls++
	f.pending = make(map[string]PendingNotification)
	return nil
}

func (f *fakeNotifier) ListPending() ([]PendingNotification, error) {
	out := make([]PendingNotification, 0, len(f.pending))
	for _, p := range f.pending {
		out = append(out, p)
	}
	return out, nil
}

func futureReminder(id string) models.CareReminder {
	return models.CareReminder{
		ID:          id,
		UserPlantID: "up-1",
		Kind:        "watering",
		TriggerAt:   time.Now().Add(2 * time.Hour),
	}
}

func TestScheduleRegistersNotification(t *testing.T) {
	notifier := newFakeNotifier()
	s := New(notifier)

	handle, ok := s.Schedule(futureReminder("rem-1"), "Ficus")
	if !ok {
		t.Fatal("Schedule() reported ok=false for a future reminder")
	}
	if handle == "" {
		t.Fatal("Schedule() returned an empty handle")
	}

	p, exists := notifier.pending[handle]
	if !exists {
		t.Fatalf("no pending notification registered under handle %q", handle)
	}
	if p.Title != "Watering Reminder" {
		t.Errorf("Title = %q, want %q", p.Title, "Watering Reminder")
	}
	if p.Body != "Time to watering your Ficus!" {
		t.Errorf("Body = %q, want %q", p.Body, "Time to watering your Ficus!")
	}
	if p.Data["reminderId"] != "rem-1" {
		t.Errorf("Data[reminderId] = %q, want %q", p.Data["reminderId"], "rem-1")
	}
}

func TestSchedulePastReminderIsNoOp(t *testing.T) {
	notifier := newFakeNotifier()
	s := New(notifier)

	stale := futureReminder("rem-stale")
	stale.TriggerAt = time.Now().Add(-time.Minute)

	handle, ok := s.Schedule(stale, "Ficus")
	if ok {
		t.Error("Schedule() reported ok=true for a reminder already due")
	}
	if handle != "" {
		t.Errorf("Schedule() returned handle %q for a reminder already due", handle)
	}
	if len(notifier.pending) != 0 {
		t.Errorf("%d notifications registered, want 0", len(notifier.pending))
	}
}

func TestScheduleReplacesPriorRegistration(t *testing.T) {
	notifier := newFakeNotifier()
	s := New(notifier)

	first, ok := s.Schedule(futureReminder("rem-1"), "Ficus")
	if !ok {
		t.Fatal("first Schedule() failed")
	}
	second, ok := s.Schedule(futureReminder("rem-1"), "Ficus")
	if !ok {
		t.Fatal("second Schedule() failed")
	}

	if first == second {
		t.Error("second Schedule() returned the same handle as the first")
	}
	if len(notifier.cancelled) != 1 || notifier.cancelled[0] != first {
		t.Errorf("cancelled handles = %v, want [%s]", notifier.cancelled, first)
	}
	if len(notifier.pending) != 1 {
		t.Errorf("%d pending notifications, want 1 (at most one per reminder id)", len(notifier.pending))
	}
}

func TestSchedulePermissionDeniedDegrades(t *testing.T) {
	notifier := newFakeNotifier()
	notifier.registerErr = ErrPermissionDenied
	s := New(notifier)

	handle, ok := s.Schedule(futureReminder("rem-1"), "Ficus")
	if ok {
		t.Error("Schedule() reported ok=true when registration was denied")
	}
	if handle != "" {
		t.Errorf("Schedule() returned handle %q when registration was denied", handle)
	}

	// No stale mapping left behind; a later Cancel must be a clean no-op
	s.Cancel("rem-1")
	if len(notifier.cancelled) != 0 {
		t.Errorf("Cancel() after failed registration cancelled %v, want nothing", notifier.cancelled)
	}
}

func TestCancelRemovesRegistration(t *testing.T) {
	notifier := newFakeNotifier()
	s := New(notifier)

	handle, _ := s.Schedule(futureReminder("rem-1"), "Ficus")

	s.Cancel("rem-1")
	if _, exists := notifier.pending[handle]; exists {
		t.Error("notification still pending after Cancel()")
	}

	// Idempotent: a second cancel for the same id does nothing further
	s.Cancel("rem-1")
	if len(notifier.cancelled) != 1 {
		t.Errorf("Cancel() issued %d platform cancellations, want 1", len(notifier.cancelled))
	}
}

func TestCancelUnknownIDIsNoOp(t *testing.T) {
	notifier := newFakeNotifier()
	s := New(notifier)

	s.Cancel("never-scheduled")
	if len(notifier.cancelled) != 0 {
		t.Errorf("Cancel() of unknown id issued %v, want nothing", notifier.cancelled)
	}
}

func TestCancelAll(t *testing.T) {
	notifier := newFakeNotifier()
	s := New(notifier)

	s.Schedule(futureReminder("rem-1"), "Ficus")
	s.Schedule(futureReminder("rem-2"), "Monstera")

	s.CancelAll()
	if notifier.cancelAlls != 1 {
		t.Errorf("CancelAll() forwarded %d times, want 1", notifier.cancelAlls)
	}
	if len(notifier.pending) != 0 {
		t.Errorf("%d notifications still pending after CancelAll()", len(notifier.pending))
	}

	// Internal mapping is cleared too
	s.Cancel("rem-1")
	if len(notifier.cancelled) != 0 {
		t.Errorf("Cancel() after CancelAll() issued %v, want nothing", notifier.cancelled)
	}
}

func TestListScheduled(t *testing.T) {
	notifier := newFakeNotifier()
	s := New(notifier)

	s.Schedule(futureReminder("rem-1"), "Ficus")
	s.Schedule(futureReminder("rem-2"), "Monstera")

	pending, err := s.ListScheduled()
	if err != nil {
		t.Fatalf("ListScheduled() error: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("ListScheduled() returned %d notifications, want 2", len(pending))
	}
}
