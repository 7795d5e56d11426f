package services

import "testing"

func strPtr(s string) *string { return &s }

func TestComposeReminderPayloadSynthesizedBody(t *testing.T) {
	payload := ComposeReminderPayload("rem-1", "up-1", "watering", nil, "Ficus")

	if payload.Title != "Watering Reminder" {
		t.Errorf("Title = %q, want %q", payload.Title, "Watering Reminder")
	}
	// The kind is substituted literally, no conjugation
	if payload.Body != "Time to watering your Ficus!" {
		t.Errorf("Body = %q, want %q", payload.Body, "Time to watering your Ficus!")
	}
}

func TestComposeReminderPayloadCustomMessage(t *testing.T) {
	payload := ComposeReminderPayload("rem-1", "up-1", "fertilizing", strPtr("Half strength this month"), "Monstera")

	if payload.Title != "Fertilizing Reminder" {
		t.Errorf("Title = %q, want %q", payload.Title, "Fertilizing Reminder")
	}
	if payload.Body != "Half strength this month" {
		t.Errorf("Body = %q, want %q", payload.Body, "Half strength this month")
	}
}

func TestComposeReminderPayloadEmptyMessageSynthesizes(t *testing.T) {
	payload := ComposeReminderPayload("rem-1", "up-1", "misting", strPtr(""), "Calathea")

	if payload.Body != "Time to misting your Calathea!" {
		t.Errorf("Body = %q, want %q", payload.Body, "Time to misting your Calathea!")
	}
}

func TestComposeReminderPayloadData(t *testing.T) {
	payload := ComposeReminderPayload("rem-9", "up-3", "repotting", nil, "Snake Plant")

	want := map[string]string{
		"reminderId":   "rem-9",
		"userPlantId":  "up-3",
		"reminderType": "repotting",
		"plantName":    "Snake Plant",
	}
	for k, v := range want {
		if payload.Data[k] != v {
			t.Errorf("Data[%q] = %q, want %q", k, payload.Data[k], v)
		}
	}
	if len(payload.Data) != len(want) {
		t.Errorf("Data has %d keys, want %d", len(payload.Data), len(want))
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"watering", "Watering"},
		{"check soil", "Check soil"},
		{"W", "W"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
