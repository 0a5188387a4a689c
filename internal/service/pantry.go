package service

import (
	"context"
	"time"

	"github.com/avolkov/pantrypal/internal/lookup"
	"github.com/avolkov/pantrypal/internal/models"
	"go.uber.org/zap"
)

// ItemStore is the persistence contract the pantry service needs.
type ItemStore interface {
	LoadAll(ctx context.Context) ([]models.Record, error)
	Append(ctx context.Context, rec models.Record) error
	Update(ctx context.Context, id models.ID, mutate func(*models.Record)) (models.Record, error)
	Remove(ctx context.Context, id models.ID) error
	Clear(ctx context.Context) error
}

// Rearmer refreshes the daily reminder after the collection changes.
type Rearmer interface {
	Refresh(ctx context.Context) bool
}

// Stats are the dashboard counts.
type Stats struct {
	Total        int `json:"total"`
	ExpiringSoon int `json:"expiring_soon"`
}

// PantryService is the facade both binaries drive: saves, expiration
// edits, deletes, listings and counts. Every mutation re-arms the
// reminder so its body tracks the collection.
type PantryService struct {
	repo      ItemStore
	scheduler Rearmer
	products  lookup.ProductLookup
	window    time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// NewPantryService wires the service. scheduler and products may be nil
// (no reminder refresh, no scan support). A non-positive window falls
// back to DefaultWindow.
func NewPantryService(
	repo ItemStore,
	scheduler Rearmer,
	products lookup.ProductLookup,
	window time.Duration,
	log *zap.Logger,
) *PantryService {
	if window <= 0 {
		window = DefaultWindow
	}
	return &PantryService{
		repo:      repo,
		scheduler: scheduler,
		products:  products,
		window:    window,
		log:       log,
		now:       time.Now,
	}
}

// Save validates a candidate and appends it to the collection. A zero
// creation instant is stamped with the current time.
func (s *PantryService) Save(ctx context.Context, cand models.Candidate) (models.Record, error) {
	if cand.CreatedAt == 0 {
		cand.CreatedAt = s.now().UnixMilli()
	}
	rec, err := models.Normalize(cand)
	if err != nil {
		return models.Record{}, err
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return models.Record{}, err
	}
	s.rearm(ctx)
	return rec, nil
}

// Scan resolves a scan code through the product collaborator and saves
// the result. Returns lookup.ErrProductNotFound when the code is
// unknown so the caller can fall back to manual entry.
func (s *PantryService) Scan(ctx context.Context, scanCode string) (models.Record, error) {
	if s.products == nil {
		return models.Record{}, lookup.ErrProductNotFound
	}
	cand, err := s.products.Lookup(ctx, scanCode)
	if err != nil {
		return models.Record{}, err
	}
	return s.Save(ctx, models.Candidate{
		Title:    cand.Title,
		Weight:   cand.Weight,
		ImageURI: cand.ImageURI,
		ScanCode: scanCode,
	})
}

// SetExpiration sets or changes the expiration instant of a record.
// No check against the creation instant: a past date is allowed and
// simply sorts first.
func (s *PantryService) SetExpiration(ctx context.Context, id models.ID, at int64) (models.Record, error) {
	rec, err := s.repo.Update(ctx, id, func(r *models.Record) {
		r.ExpiresAt = &at
	})
	if err != nil {
		return models.Record{}, err
	}
	s.rearm(ctx)
	return rec, nil
}

// Remove deletes a record. Removing an absent identifier is a no-op.
func (s *PantryService) Remove(ctx context.Context, id models.ID) error {
	if err := s.repo.Remove(ctx, id); err != nil {
		return err
	}
	s.rearm(ctx)
	return nil
}

// Clear wipes the whole collection.
func (s *PantryService) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.rearm(ctx)
	return nil
}

// List returns the collection in its persisted sorted order.
func (s *PantryService) List(ctx context.Context) ([]models.Record, error) {
	return s.repo.LoadAll(ctx)
}

// Expiring returns the records expiring within the window, as of now.
// A non-positive window uses the service default.
func (s *PantryService) Expiring(ctx context.Context, window time.Duration) ([]models.Record, error) {
	if window <= 0 {
		window = s.window
	}
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return ExpiringWithin(records, s.now(), window), nil
}

// Stats returns the dashboard counts: collection size and how many
// items expire within the default window.
func (s *PantryService) Stats(ctx context.Context) (Stats, error) {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Total:        len(records),
		ExpiringSoon: len(ExpiringWithin(records, s.now(), s.window)),
	}, nil
}

// Ingredients returns the titles of the sorted collection, the payload
// the recipe collaborator consumes.
func (s *PantryService) Ingredients(ctx context.Context) ([]string, error) {
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(records))
	for _, rec := range records {
		titles = append(titles, rec.Title)
	}
	return titles, nil
}

func (s *PantryService) rearm(ctx context.Context) {
	if s.scheduler == nil {
		return
	}
	if !s.scheduler.Refresh(ctx) {
		s.log.Debug("reminder not re-armed after collection change")
	}
}
