package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avolkov/pantrypal/internal/blobstore"
	"github.com/avolkov/pantrypal/internal/models"
)

// notificationTimeKey holds the user's chosen daily reminder time,
// encoded as a full timestamp of which only hour and minute matter.
const notificationTimeKey = "notificationTime"

// SettingsRepository is the sole owner of the notificationTime blob.
type SettingsRepository struct {
	store blobstore.Store
}

// NewSettingsRepository creates a SettingsRepository over the given store.
func NewSettingsRepository(store blobstore.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// NotificationTime returns the persisted reminder time, or the 09:00
// default when none has been saved yet.
func (r *SettingsRepository) NotificationTime(ctx context.Context) (models.TimeOfDay, error) {
	data, err := r.store.Get(ctx, notificationTimeKey)
	if errors.Is(err, blobstore.ErrKeyNotFound) {
		return models.DefaultNotificationTime, nil
	}
	if err != nil {
		return models.TimeOfDay{}, fmt.Errorf("loading %s: %w", notificationTimeKey, err)
	}

	var at time.Time
	if err := json.Unmarshal(data, &at); err != nil {
		return models.TimeOfDay{}, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	return models.TimeOfDay{Hour: at.Hour(), Minute: at.Minute()}, nil
}

// SetNotificationTime persists the reminder time. The value is written
// as today's date at the chosen hour and minute; readers only look at
// the clock fields.
func (r *SettingsRepository) SetNotificationTime(ctx context.Context, tod models.TimeOfDay) error {
	if !tod.Valid() {
		return fmt.Errorf("invalid time of day %02d:%02d", tod.Hour, tod.Minute)
	}

	now := time.Now()
	at := time.Date(now.Year(), now.Month(), now.Day(), tod.Hour, tod.Minute, 0, 0, time.Local)
	data, err := json.Marshal(at)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", notificationTimeKey, err)
	}
	if err := r.store.Set(ctx, notificationTimeKey, data); err != nil {
		return fmt.Errorf("writing %s: %w", notificationTimeKey, err)
	}
	return nil
}
