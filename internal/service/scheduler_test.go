package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolkov/pantrypal/internal/blobstore"
	"github.com/avolkov/pantrypal/internal/models"
	"github.com/avolkov/pantrypal/internal/notify"
	"github.com/avolkov/pantrypal/internal/repository"
	"go.uber.org/zap"
)

// fakePlatform counts triggers the way the real platform would: every
// CancelAll drops them all, every ScheduleDaily adds one.
type fakePlatform struct {
	granted     bool
	scheduleErr error

	cancelCalls int
	active      int
	lastHour    int
	lastMinute  int
	lastContent notify.Content
	handles     int
}

func (f *fakePlatform) CancelAll(context.Context) error {
	f.cancelCalls++
	f.active = 0
	return nil
}

func (f *fakePlatform) ScheduleDaily(_ context.Context, hour, minute int, content notify.Content) (string, error) {
	if !f.granted {
		return "", notify.ErrPermissionDenied
	}
	if f.scheduleErr != nil {
		return "", f.scheduleErr
	}
	f.active++
	f.lastHour = hour
	f.lastMinute = minute
	f.lastContent = content
	f.handles++
	return string(rune('a' + f.handles)), nil
}

func (f *fakePlatform) RequestPermission(context.Context) (bool, error) {
	return f.granted, nil
}

func (f *fakePlatform) PermissionStatus(context.Context) (bool, error) {
	return f.granted, nil
}

// fakeSenderPlatform adds immediate delivery.
type fakeSenderPlatform struct {
	fakePlatform
	sent    []notify.Content
	sendErr error
}

func (f *fakeSenderPlatform) Send(_ context.Context, content notify.Content) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, content)
	return nil
}

func newScheduler(t *testing.T, platform notify.Platform) (*NotificationScheduler, *repository.ItemRepository, *repository.SettingsRepository) {
	t.Helper()
	store := blobstore.NewMemory()
	items := repository.NewItemRepository(store)
	settings := repository.NewSettingsRepository(store)
	s := NewNotificationScheduler(items, settings, platform, DefaultWindow, zap.NewNop())
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s, items, settings
}

func TestInitialize_FirstRunUsesDefaultTime(t *testing.T) {
	platform := &fakePlatform{granted: true}
	s, _, _ := newScheduler(t, platform)

	if !s.Initialize(context.Background()) {
		t.Fatal("Initialize returned false")
	}
	if !s.Armed() {
		t.Error("scheduler not armed after Initialize")
	}
	if platform.lastHour != 9 || platform.lastMinute != 0 {
		t.Errorf("armed at %02d:%02d; want 09:00", platform.lastHour, platform.lastMinute)
	}
}

func TestInitialize_UsesPersistedTime(t *testing.T) {
	platform := &fakePlatform{granted: true}
	s, _, settings := newScheduler(t, platform)

	if err := settings.SetNotificationTime(context.Background(), models.TimeOfDay{Hour: 7, Minute: 45}); err != nil {
		t.Fatalf("SetNotificationTime failed: %v", err)
	}
	if !s.Initialize(context.Background()) {
		t.Fatal("Initialize returned false")
	}
	if platform.lastHour != 7 || platform.lastMinute != 45 {
		t.Errorf("armed at %02d:%02d; want 07:45", platform.lastHour, platform.lastMinute)
	}
}

func TestInitialize_PermissionDeniedStaysDisarmed(t *testing.T) {
	platform := &fakePlatform{granted: false}
	s, _, _ := newScheduler(t, platform)

	if s.Initialize(context.Background()) {
		t.Error("Initialize returned true without permission")
	}
	if s.Armed() {
		t.Error("scheduler armed without permission")
	}
	if platform.active != 0 {
		t.Errorf("platform has %d triggers; want 0", platform.active)
	}
}

func TestReschedule_ExactlyOneTrigger(t *testing.T) {
	platform := &fakePlatform{granted: true}
	s, _, settings := newScheduler(t, platform)

	if !s.Reschedule(context.Background(), 14, 30) {
		t.Fatal("first Reschedule returned false")
	}
	if !s.Reschedule(context.Background(), 14, 30) {
		t.Fatal("second Reschedule returned false")
	}

	if platform.active != 1 {
		t.Errorf("platform has %d triggers after double reschedule; want exactly 1", platform.active)
	}
	if platform.lastHour != 14 || platform.lastMinute != 30 {
		t.Errorf("armed at %02d:%02d; want 14:30", platform.lastHour, platform.lastMinute)
	}

	tod, err := settings.NotificationTime(context.Background())
	if err != nil {
		t.Fatalf("NotificationTime failed: %v", err)
	}
	if (tod != models.TimeOfDay{Hour: 14, Minute: 30}) {
		t.Errorf("persisted time = %s; want 14:30", tod)
	}
}

func TestReschedule_InvalidTime(t *testing.T) {
	platform := &fakePlatform{granted: true}
	s, _, settings := newScheduler(t, platform)

	if s.Reschedule(context.Background(), 24, 0) {
		t.Error("Reschedule accepted hour 24")
	}
	tod, _ := settings.NotificationTime(context.Background())
	if tod != models.DefaultNotificationTime {
		t.Errorf("persisted time = %s; want untouched default", tod)
	}
}

func TestReschedule_PlatformFailureReportsFalse(t *testing.T) {
	platform := &fakePlatform{granted: true, scheduleErr: errors.New("platform refused")}
	s, _, _ := newScheduler(t, platform)

	if s.Reschedule(context.Background(), 10, 0) {
		t.Error("Reschedule returned true despite platform failure")
	}
	if s.Armed() {
		t.Error("scheduler armed despite platform failure")
	}
}

func TestReschedule_ContentReflectsCollection(t *testing.T) {
	platform := &fakePlatform{granted: true}
	s, items, _ := newScheduler(t, platform)
	ctx := context.Background()

	now := int64(1700000000000)
	day := int64(24 * time.Hour / time.Millisecond)
	milkExp := now + day
	eggsExp := now + 10*day
	for _, rec := range []models.Record{
		{Title: "Milk", ScanCode: "1", CreatedAt: 1, ExpiresAt: &milkExp},
		{Title: "Bread", ScanCode: "2", CreatedAt: 2},
		{Title: "Eggs", ScanCode: "3", CreatedAt: 3, ExpiresAt: &eggsExp},
	} {
		if err := items.Append(ctx, rec); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	if !s.Reschedule(ctx, 9, 0) {
		t.Fatal("Reschedule returned false")
	}

	want := notify.Content{
		Title:         "Pantry Reminder",
		Body:          "Milk expires in the next 3 days!",
		ExpiringCount: 1,
	}
	if platform.lastContent != want {
		t.Errorf("content = %+v; want %+v", platform.lastContent, want)
	}
}

func TestRefresh_RearmsAtPersistedTime(t *testing.T) {
	platform := &fakePlatform{granted: true}
	s, _, settings := newScheduler(t, platform)
	ctx := context.Background()

	if err := settings.SetNotificationTime(ctx, models.TimeOfDay{Hour: 18, Minute: 15}); err != nil {
		t.Fatalf("SetNotificationTime failed: %v", err)
	}
	if !s.Refresh(ctx) {
		t.Fatal("Refresh returned false")
	}
	if platform.active != 1 || platform.lastHour != 18 || platform.lastMinute != 15 {
		t.Errorf("armed %d triggers at %02d:%02d; want 1 at 18:15",
			platform.active, platform.lastHour, platform.lastMinute)
	}
}

func TestRefresh_NoPermission(t *testing.T) {
	platform := &fakePlatform{granted: false}
	s, _, _ := newScheduler(t, platform)

	if s.Refresh(context.Background()) {
		t.Error("Refresh returned true without permission")
	}
	if platform.cancelCalls != 0 {
		t.Errorf("Refresh touched the platform %d times without permission", platform.cancelCalls)
	}
}

func TestSendTest(t *testing.T) {
	platform := &fakeSenderPlatform{fakePlatform: fakePlatform{granted: true}}
	s, _, _ := newScheduler(t, platform)

	if !s.SendTest(context.Background()) {
		t.Fatal("SendTest returned false")
	}
	if len(platform.sent) != 1 {
		t.Fatalf("sent %d notifications; want 1", len(platform.sent))
	}
	if platform.sent[0].Body != "No items expiring in the next 3 days!" {
		t.Errorf("body = %q; want empty-pantry text", platform.sent[0].Body)
	}
}

func TestSendTest_UnsupportedPlatform(t *testing.T) {
	s, _, _ := newScheduler(t, &fakePlatform{granted: true})
	if s.SendTest(context.Background()) {
		t.Error("SendTest returned true on a platform without immediate delivery")
	}
}

func TestNotificationBody(t *testing.T) {
	rec := func(title string) models.Record { return models.Record{Title: title} }

	cases := []struct {
		name     string
		expiring []models.Record
		want     string
	}{
		{"none", nil, "No items expiring in the next 3 days!"},
		{"one", []models.Record{rec("Milk")}, "Milk expires in the next 3 days!"},
		{"two", []models.Record{rec("Milk"), rec("Eggs")},
			"2 items expiring in the next 3 days: Milk and 1 other"},
		{"three", []models.Record{rec("Milk"), rec("Eggs"), rec("Cheese")},
			"3 items expiring in the next 3 days: Milk and 2 others"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NotificationBody(tc.expiring, 3); got != tc.want {
				t.Errorf("NotificationBody = %q; want %q", got, tc.want)
			}
		})
	}
}
