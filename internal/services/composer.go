package services

import (
	"fmt"
	"unicode"
)

// PushPayload is the composed notification content shared by the local
// scheduler and the dispatch sweep. Both paths must produce identical
// titles and bodies for the same reminder.
type PushPayload struct {
	Title string
	Body  string
	Data  map[string]string
}

// ComposeReminderPayload builds the notification for one care reminder.
// When the reminder has no message, the body is synthesized from the kind
// and the plant's display name. The kind is substituted literally, no
// conjugation ("Time to watering your Ficus!").
func ComposeReminderPayload(reminderID, userPlantID, kind string, message *string, plantName string) PushPayload {
	body := ""
	if message != nil {
		body = *message
	}
	if body == "" {
		body = fmt.Sprintf("Time to %s your %s!", kind, plantName)
	}

	return PushPayload{
		Title: capitalize(kind) + " Reminder",
		Body:  body,
		Data: map[string]string{
			"reminderId":   reminderID,
			"userPlantId":  userPlantID,
			"reminderType": kind,
			"plantName":    plantName,
		},
	}
}

// capitalize upper-cases the first rune only, leaving the rest untouched
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
