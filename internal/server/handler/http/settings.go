package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avolkov/pantrypal/internal/models"
)

// ScheduleService defines the scheduler operations the settings handler
// needs.
type ScheduleService interface {
	// Time returns the effective notification time.
	Time(ctx context.Context) models.TimeOfDay
	// Reschedule moves the daily trigger; false means the trigger is
	// not armed (permission or platform failure).
	Reschedule(ctx context.Context, hour, minute int) bool
	// SendTest fires a one-shot notification with current content.
	SendTest(ctx context.Context) bool
	// Armed reports whether a daily trigger is registered.
	Armed() bool
}

// SettingsHandler handles HTTP requests for notification settings.
type SettingsHandler struct {
	Schedule ScheduleService
}

// GetNotificationTime handles GET /api/settings/notification-time.
func (h *SettingsHandler) GetNotificationTime(w http.ResponseWriter, r *http.Request) {
	tod := h.Schedule.Time(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"hour":   tod.Hour,
		"minute": tod.Minute,
		"armed":  h.Schedule.Armed(),
	})
}

// PutNotificationTime handles PUT /api/settings/notification-time.
// A failed reschedule is not an HTTP error: the chosen time is still
// reflected, with scheduled=false, so the settings screen never blocks.
func (h *SettingsHandler) PutNotificationTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hour   int `json:"hour"`
		Minute int `json:"minute"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	tod := models.TimeOfDay{Hour: req.Hour, Minute: req.Minute}
	if !tod.Valid() {
		http.Error(w, "invalid time of day", http.StatusBadRequest)
		return
	}

	ok := h.Schedule.Reschedule(r.Context(), tod.Hour, tod.Minute)
	writeJSON(w, http.StatusOK, map[string]any{
		"hour":      tod.Hour,
		"minute":    tod.Minute,
		"scheduled": ok,
	})
}

// SendTest handles POST /api/settings/notification-test.
func (h *SettingsHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sent": h.Schedule.SendTest(r.Context()),
	})
}
