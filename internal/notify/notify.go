// Package notify defines the notification platform primitive the
// scheduler is built on, plus a local in-process implementation.
package notify

import (
	"context"
	"errors"
)

// ErrPermissionDenied is returned by ScheduleDaily when the platform
// grant is missing. The scheduler treats it as a silent no-op.
var ErrPermissionDenied = errors.New("notification permission denied")

// Content is what a fired notification shows.
type Content struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	ExpiringCount int    `json:"expiring_count"`
}

// Platform is the set of operations the scheduler needs from the
// underlying notification service.
type Platform interface {
	// CancelAll tears down every scheduled trigger. Idempotent.
	CancelAll(ctx context.Context) error
	// ScheduleDaily registers a recurring trigger at hour:minute and
	// returns its handle. Fails with ErrPermissionDenied without a grant.
	ScheduleDaily(ctx context.Context, hour, minute int, content Content) (string, error)
	// RequestPermission asks the platform for the notification grant.
	RequestPermission(ctx context.Context) (bool, error)
	// PermissionStatus reports the current grant without prompting.
	PermissionStatus(ctx context.Context) (bool, error)
}

// Sender is implemented by platforms that can also deliver a one-shot
// notification immediately, used for the settings-screen test button.
type Sender interface {
	Send(ctx context.Context, content Content) error
}
