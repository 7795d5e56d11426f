package scheduler

import "errors"

// ErrPermissionDenied is returned by a LocalNotifier when the user has not
// granted notification permission. Scheduling degrades to dispatch-only
// delivery for that device; it is not a program error.
var ErrPermissionDenied = errors.New("notification permission not granted")

// PendingNotification is one platform-registered delayed notification,
// as reported by a point-in-time platform query.
type PendingNotification struct {
	Handle string
	Title  string
	Body   string
	Data   map[string]string
}

// LocalNotifier is the device platform's local-notification primitive.
// Implementations wrap whatever the host OS exposes; tests use a fake.
type LocalNotifier interface {
	// RegisterDelayed schedules a notification delaySeconds from now and
	// returns an opaque handle for later cancellation.
	RegisterDelayed(title, body string, data map[string]string, delaySeconds int64) (string, error)

	// Cancel removes one registration. Cancelling an unknown handle is a no-op.
	Cancel(handle string) error

	// CancelAll removes every registration this process created.
	CancelAll() error

	// ListPending returns the currently registered notifications.
	ListPending() ([]PendingNotification, error)
}
