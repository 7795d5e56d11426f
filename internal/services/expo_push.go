package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
)

const defaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// PushSender delivers one composed payload to one device token.
// A nil return means the gateway accepted the message; anything else is a
// delivery failure and the caller decides whether to retry.
type PushSender interface {
	Send(ctx context.Context, token string, payload PushPayload) error
}

// ExpoPushService talks to the Expo push HTTP endpoint
type ExpoPushService struct {
	apiURL string
	client *http.Client
}

// NewExpoPushService creates an Expo push client. EXPO_PUSH_URL overrides
// the endpoint (used by tests and self-hosted relays).
func NewExpoPushService() *ExpoPushService {
	apiURL := os.Getenv("EXPO_PUSH_URL")
	if apiURL == "" {
		apiURL = defaultExpoPushURL
	}

	return &ExpoPushService{
		apiURL: apiURL,
		client: &http.Client{},
	}
}

type expoPushMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data"`
}

type expoPushResponse struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

// Send posts a single message to the Expo gateway. Expo reports
// per-message failures inside a 200 response, so the body's status field
// is checked in addition to the HTTP status.
func (s *ExpoPushService) Send(ctx context.Context, token string, payload PushPayload) error {
	message := expoPushMessage{
		To:    token,
		Sound: "default",
		Title: payload.Title,
		Body:  payload.Body,
		Data:  payload.Data,
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push gateway returned status code %d", resp.StatusCode)
	}

	var result expoPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}

	if result.Data.Status == "error" {
		return fmt.Errorf("push gateway rejected message: %s", result.Data.Message)
	}

	return nil
}
