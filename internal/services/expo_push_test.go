package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testPayload() PushPayload {
	return PushPayload{
		Title: "Watering Reminder",
		Body:  "Time to watering your Ficus!",
		Data: map[string]string{
			"reminderId":   "rem-1",
			"userPlantId":  "up-1",
			"reminderType": "watering",
			"plantName":    "Ficus",
		},
	}
}

func newTestExpoService(t *testing.T, handler http.HandlerFunc) *ExpoPushService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("EXPO_PUSH_URL", srv.URL)
	return NewExpoPushService()
}

func TestExpoPushSendSuccess(t *testing.T) {
	var got expoPushMessage
	svc := newTestExpoService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Write([]byte(`{"data":{"status":"ok","id":"receipt-1"}}`))
	})

	err := svc.Send(context.Background(), "ExponentPushToken[abc]", testPayload())
	if err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if got.To != "ExponentPushToken[abc]" {
		t.Errorf("to = %q, want the device token", got.To)
	}
	if got.Sound != "default" {
		t.Errorf("sound = %q, want %q", got.Sound, "default")
	}
	if got.Title != "Watering Reminder" || got.Body != "Time to watering your Ficus!" {
		t.Errorf("title/body = %q / %q", got.Title, got.Body)
	}
	if got.Data["reminderId"] != "rem-1" {
		t.Errorf("data.reminderId = %q, want %q", got.Data["reminderId"], "rem-1")
	}
}

func TestExpoPushSendErrorStatusInBody(t *testing.T) {
	// Expo reports per-message failures inside a 200 response
	svc := newTestExpoService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"status":"error","message":"\"ExponentPushToken[abc]\" is not a registered push notification recipient"}}`))
	})

	err := svc.Send(context.Background(), "ExponentPushToken[abc]", testPayload())
	if err == nil {
		t.Fatal("Send() returned nil for a body-level error status")
	}
}

func TestExpoPushSendNon200(t *testing.T) {
	svc := newTestExpoService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := svc.Send(context.Background(), "ExponentPushToken[abc]", testPayload())
	if err == nil {
		t.Fatal("Send() returned nil for a 502 response")
	}
}

func TestExpoPushSendCancelledContext(t *testing.T) {
	svc := newTestExpoService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"status":"ok"}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.Send(ctx, "ExponentPushToken[abc]", testPayload())
	if err == nil {
		t.Fatal("Send() returned nil with a cancelled context")
	}
}
