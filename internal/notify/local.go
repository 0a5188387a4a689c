package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// trigger is one armed daily notification.
type trigger struct {
	id      string
	hour    int
	minute  int
	content Content
}

// Local implements Platform in-process: a goroutine waits for the next
// hour:minute occurrence and delivers the armed content once a day.
// Delivery goes to the structured log and, when set, a callback.
type Local struct {
	log     *zap.Logger
	granted bool
	deliver func(Content)

	mu      sync.Mutex
	current *trigger
	cancel  context.CancelFunc
}

// NewLocal creates a local platform. granted models the OS-level
// notification permission: when false, scheduling fails with
// ErrPermissionDenied and RequestPermission reports the denial.
func NewLocal(log *zap.Logger, granted bool) *Local {
	return &Local{log: log, granted: granted}
}

// OnDeliver registers a callback invoked on every delivered notification.
func (l *Local) OnDeliver(fn func(Content)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deliver = fn
}

// CancelAll stops the dispatch goroutine and drops the armed trigger.
// Safe to call when nothing is armed.
func (l *Local) CancelAll(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancelLocked()
	return nil
}

func (l *Local) cancelLocked() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.current = nil
}

// ScheduleDaily arms a recurring trigger at hour:minute. Any previously
// armed trigger is replaced, so at most one is ever live.
func (l *Local) ScheduleDaily(_ context.Context, hour, minute int, content Content) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.granted {
		return "", ErrPermissionDenied
	}

	l.cancelLocked()
	trig := &trigger{id: uuid.NewString(), hour: hour, minute: minute, content: content}
	l.current = trig

	runCtx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go l.run(runCtx, trig)

	l.log.Info("daily notification scheduled",
		zap.String("trigger", trig.id),
		zap.Int("hour", hour),
		zap.Int("minute", minute),
	)
	return trig.id, nil
}

// RequestPermission reports the construction-time grant; there is no
// interactive prompt in-process.
func (l *Local) RequestPermission(_ context.Context) (bool, error) {
	return l.granted, nil
}

// PermissionStatus reports the current grant.
func (l *Local) PermissionStatus(_ context.Context) (bool, error) {
	return l.granted, nil
}

// Send delivers a one-shot notification immediately.
func (l *Local) Send(_ context.Context, content Content) error {
	if !l.granted {
		return ErrPermissionDenied
	}
	l.fire(content, "immediate")
	return nil
}

// run waits for each daily occurrence of the trigger time and fires.
func (l *Local) run(ctx context.Context, trig *trigger) {
	next := nextOccurrence(time.Now(), trig.hour, trig.minute)
	for {
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			l.fire(trig.content, trig.id)
			next = next.Add(24 * time.Hour)
		}
	}
}

func (l *Local) fire(content Content, trigger string) {
	l.log.Info("notification delivered",
		zap.String("trigger", trigger),
		zap.String("title", content.Title),
		zap.String("body", content.Body),
		zap.Int("expiring_count", content.ExpiringCount),
	)
	l.mu.Lock()
	deliver := l.deliver
	l.mu.Unlock()
	if deliver != nil {
		deliver(content)
	}
}

// nextOccurrence returns the next time hour:minute comes around: today
// if still ahead of now, otherwise tomorrow.
func nextOccurrence(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
