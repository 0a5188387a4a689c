// Package repository owns the serialized pantry state: the item
// collection blob and the notification-time blob. All mutation goes
// through full-read → modify → full-write cycles here; nothing else in
// the program touches the underlying keys.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/avolkov/pantrypal/internal/blobstore"
	"github.com/avolkov/pantrypal/internal/models"
)

// itemsKey is the logical key the whole collection is serialized under.
const itemsKey = "scannedItems"

var (
	// ErrStoreCorrupt means the persisted blob could not be parsed.
	// Whether that is fatal or just an empty pantry is the caller's call.
	ErrStoreCorrupt = errors.New("stored collection is corrupt")
	// ErrNotFound means a mutation targeted an identifier that is no
	// longer in the collection.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateIdentifier means an append would violate identifier
	// uniqueness. Unreachable in practice since creation timestamps
	// differ, but checked defensively.
	ErrDuplicateIdentifier = errors.New("duplicate record identifier")
)

// ItemRepository is the sole owner of the scannedItems blob. Every write
// re-sorts the collection first, so readers always see it in display
// order. A single mutex serializes the read-modify-write cycles, which
// removes the lost-update race of concurrent mutations.
type ItemRepository struct {
	store blobstore.Store
	mu    sync.Mutex
}

// NewItemRepository creates an ItemRepository over the given blob store.
func NewItemRepository(store blobstore.Store) *ItemRepository {
	return &ItemRepository{store: store}
}

// load reads and parses the collection. A missing key is an empty
// collection; an unparsable blob is ErrStoreCorrupt.
func (r *ItemRepository) load(ctx context.Context) ([]models.Record, error) {
	data, err := r.store.Get(ctx, itemsKey)
	if errors.Is(err, blobstore.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", itemsKey, err)
	}

	var records []models.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	return records, nil
}

// save sorts and writes the full collection back.
func (r *ItemRepository) save(ctx context.Context, records []models.Record) error {
	models.Sort(records)
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", itemsKey, err)
	}
	if err := r.store.Set(ctx, itemsKey, data); err != nil {
		return fmt.Errorf("writing %s: %w", itemsKey, err)
	}
	return nil
}

// LoadAll returns the full collection in sorted order. The sequence is
// sorted at write time, so no re-sort happens here.
func (r *ItemRepository) LoadAll(ctx context.Context) ([]models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Append adds a record to the collection, asserting identifier
// uniqueness, and persists the re-sorted result.
func (r *ItemRepository) Append(ctx context.Context, rec models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range records {
		if existing.Identity() == rec.Identity() {
			return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, rec.Identity())
		}
	}
	return r.save(ctx, append(records, rec))
}

// Update locates the record by identifier, applies the mutator, and
// persists the re-sorted collection. The identifier itself is preserved
// across the mutation. Returns the mutated record.
func (r *ItemRepository) Update(ctx context.Context, id models.ID, mutate func(*models.Record)) (models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return models.Record{}, err
	}
	for i := range records {
		if records[i].Identity() != id {
			continue
		}
		mutate(&records[i])
		// Identity is immutable; restore it in case the mutator touched it.
		records[i].ScanCode = id.ScanCode
		records[i].CreatedAt = id.CreatedAt
		updated := records[i]
		if err := r.save(ctx, records); err != nil {
			return models.Record{}, err
		}
		return updated, nil
	}
	return models.Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Remove filters the record out and persists the result. Removing an
// identifier that is not present is a no-op, not an error.
func (r *ItemRepository) Remove(ctx context.Context, id models.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.Identity() != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return r.save(ctx, kept)
}

// Clear deletes the collection key entirely.
func (r *ItemRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, itemsKey); err != nil {
		return fmt.Errorf("clearing %s: %w", itemsKey, err)
	}
	return nil
}
