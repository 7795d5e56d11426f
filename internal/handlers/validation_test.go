package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"plantpal-backend/internal/middleware"
)

// Request validation runs before any database access, so these tests drive
// the handlers with a signed-in context and no backing store.

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, middleware.UserClaims{
		UserID: "user-1",
		Email:  "demo@plantpal.app",
		Role:   "user",
	})
	return req.WithContext(ctx)
}

func TestCreateSupportTicketRejectsInvalidPriority(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/support-tickets",
		`{"title":"App crashes","message":"On startup","priority":"urgent"}`)

	CreateSupportTicket(nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d for an unknown priority", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateSupportTicketRequiresTitleAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/support-tickets", `{"title":"  ","message":""}`)

	CreateSupportTicket(nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateWeatherAlertRequiresAllFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing alert_type", `{"alert_time":"2026-09-01T06:00:00Z","message":"Frost expected overnight"}`},
		{"missing alert_time", `{"alert_type":"frost","message":"Frost expected overnight"}`},
		{"missing message", `{"alert_type":"frost","alert_time":"2026-09-01T06:00:00Z"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := authedRequest(http.MethodPost, "/api/weather-alerts", tt.body)

			CreateWeatherAlert(nil)(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCreateWeatherAlertRejectsBadTimestamp(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/weather-alerts",
		`{"alert_type":"frost","alert_time":"tomorrow morning","message":"Frost expected"}`)

	CreateWeatherAlert(nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d for a non-RFC3339 alert_time", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateProfileRejectsEmptyName(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/profile", `{"name":"   "}`)

	UpdateProfile(nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestUpdateProfileRejectsEmptyUpdate(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/profile", `{}`)

	UpdateProfile(nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d when no fields are given", rec.Code, http.StatusBadRequest)
	}
}

func TestChangePasswordRequiresCurrentPassword(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/profile/password", `{"new_password":"longenough1"}`)

	ChangePassword(nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestChangePasswordRejectsShortNewPassword(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/profile/password",
		`{"current_password":"plant123","new_password":"short"}`)

	ChangePassword(nil)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandlersRejectMissingClaims(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"weather alerts": GetWeatherAlerts(nil),
		"profile":        UpdateProfile(nil),
		"password":       ChangePassword(nil),
	}

	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/x", strings.NewReader("{}"))

			h(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d without claims", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}
