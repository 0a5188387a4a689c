package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/avolkov/pantrypal/internal/models"
	"github.com/avolkov/pantrypal/internal/notify"
	"go.uber.org/zap"
)

// NotificationTitle is the fixed title of the daily reminder.
const NotificationTitle = "Pantry Reminder"

// ItemSource is the read side of the collection the scheduler derives
// notification content from.
type ItemSource interface {
	LoadAll(ctx context.Context) ([]models.Record, error)
}

// SettingsStore persists the user's chosen notification time.
type SettingsStore interface {
	NotificationTime(ctx context.Context) (models.TimeOfDay, error)
	SetNotificationTime(ctx context.Context, tod models.TimeOfDay) error
}

// NotificationScheduler owns at most one recurring daily trigger. It is
// either Disarmed (no trigger registered) or Armed at a specific
// hour:minute; re-arming always tears the old trigger down first, never
// patches it. All failures are reported as a boolean to the caller —
// a broken reminder must not block the settings flow.
//
// Content is derived from the collection at arm time, not at fire time,
// so the body can go stale until the next reschedule. Known tradeoff.
type NotificationScheduler struct {
	items    ItemSource
	settings SettingsStore
	platform notify.Platform
	window   time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	armed  bool
	handle string
	at     models.TimeOfDay
}

// NewNotificationScheduler wires the scheduler to its collaborators.
// A non-positive window falls back to DefaultWindow.
func NewNotificationScheduler(
	items ItemSource,
	settings SettingsStore,
	platform notify.Platform,
	window time.Duration,
	log *zap.Logger,
) *NotificationScheduler {
	if window <= 0 {
		window = DefaultWindow
	}
	return &NotificationScheduler{
		items:    items,
		settings: settings,
		platform: platform,
		window:   window,
		log:      log,
		now:      time.Now,
	}
}

// Initialize arms the daily trigger on app start, using the persisted
// time or the 09:00 default on first run. When the platform grant is
// missing the scheduler stays Disarmed and reports false without error.
func (s *NotificationScheduler) Initialize(ctx context.Context) bool {
	granted, err := s.platform.RequestPermission(ctx)
	if err != nil {
		s.log.Warn("requesting notification permission", zap.Error(err))
		return false
	}
	if !granted {
		s.log.Info("notification permission not granted, scheduler stays disarmed")
		return false
	}
	return s.arm(ctx, s.persistedTime(ctx))
}

// Reschedule moves the daily trigger to a new time. It unconditionally
// cancels any existing trigger (cancellation is idempotent), persists
// the time, recomputes content from the current collection, and re-arms.
func (s *NotificationScheduler) Reschedule(ctx context.Context, hour, minute int) bool {
	tod := models.TimeOfDay{Hour: hour, Minute: minute}
	if !tod.Valid() {
		s.log.Error("rejecting invalid notification time", zap.String("time", tod.String()))
		return false
	}

	if err := s.platform.CancelAll(ctx); err != nil {
		s.log.Warn("cancelling existing triggers", zap.Error(err))
	}
	s.setDisarmed()

	if err := s.settings.SetNotificationTime(ctx, tod); err != nil {
		s.log.Error("persisting notification time", zap.Error(err))
		return false
	}
	return s.arm(ctx, tod)
}

// Refresh re-arms the trigger at the already persisted time so the
// notification body reflects the current collection. Called after item
// mutations. Stays Disarmed when the grant is missing.
func (s *NotificationScheduler) Refresh(ctx context.Context) bool {
	granted, err := s.platform.PermissionStatus(ctx)
	if err != nil || !granted {
		return false
	}
	return s.arm(ctx, s.persistedTime(ctx))
}

// SendTest delivers a one-shot notification with the current content,
// when the platform supports immediate delivery.
func (s *NotificationScheduler) SendTest(ctx context.Context) bool {
	sender, ok := s.platform.(notify.Sender)
	if !ok {
		return false
	}
	if err := sender.Send(ctx, s.content(ctx)); err != nil {
		s.log.Warn("sending test notification", zap.Error(err))
		return false
	}
	return true
}

// Armed reports whether a daily trigger is currently registered.
func (s *NotificationScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Time returns the effective notification time (persisted or default).
func (s *NotificationScheduler) Time(ctx context.Context) models.TimeOfDay {
	return s.persistedTime(ctx)
}

func (s *NotificationScheduler) persistedTime(ctx context.Context) models.TimeOfDay {
	tod, err := s.settings.NotificationTime(ctx)
	if err != nil {
		s.log.Warn("reading notification time, using default", zap.Error(err))
		return models.DefaultNotificationTime
	}
	return tod
}

// arm tears down any live trigger and registers a fresh one at tod.
func (s *NotificationScheduler) arm(ctx context.Context, tod models.TimeOfDay) bool {
	if err := s.platform.CancelAll(ctx); err != nil {
		s.log.Warn("cancelling existing triggers", zap.Error(err))
	}

	handle, err := s.platform.ScheduleDaily(ctx, tod.Hour, tod.Minute, s.content(ctx))
	if err != nil {
		if errors.Is(err, notify.ErrPermissionDenied) {
			s.log.Info("notification permission missing, scheduler stays disarmed")
		} else {
			s.log.Error("arming daily notification", zap.Error(err))
		}
		s.setDisarmed()
		return false
	}

	s.mu.Lock()
	s.armed = true
	s.handle = handle
	s.at = tod
	s.mu.Unlock()

	s.log.Info("daily reminder armed",
		zap.String("time", tod.String()),
		zap.String("trigger", handle),
	)
	return true
}

func (s *NotificationScheduler) setDisarmed() {
	s.mu.Lock()
	s.armed = false
	s.handle = ""
	s.mu.Unlock()
}

// content derives the notification from the collection as it is right
// now. A failed load is treated as an empty pantry.
func (s *NotificationScheduler) content(ctx context.Context) notify.Content {
	records, err := s.items.LoadAll(ctx)
	if err != nil {
		s.log.Warn("loading items for notification content", zap.Error(err))
		records = nil
	}
	expiring := ExpiringWithin(records, s.now(), s.window)
	days := int(s.window.Hours() / 24)
	return notify.Content{
		Title:         NotificationTitle,
		Body:          NotificationBody(expiring, days),
		ExpiringCount: len(expiring),
	}
}

// NotificationBody renders the reminder text for the given expiring
// subset and window length in days.
func NotificationBody(expiring []models.Record, windowDays int) string {
	switch n := len(expiring); n {
	case 0:
		return fmt.Sprintf("No items expiring in the next %d days!", windowDays)
	case 1:
		return fmt.Sprintf("%s expires in the next %d days!", expiring[0].Title, windowDays)
	default:
		suffix := ""
		if n-1 > 1 {
			suffix = "s"
		}
		return fmt.Sprintf("%d items expiring in the next %d days: %s and %d other%s",
			n, windowDays, expiring[0].Title, n-1, suffix)
	}
}
