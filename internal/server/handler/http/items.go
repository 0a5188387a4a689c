// Package http provides HTTP handlers for the pantry API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/avolkov/pantrypal/internal/models"
	"github.com/avolkov/pantrypal/internal/repository"
	"github.com/avolkov/pantrypal/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ItemService defines the pantry operations the items handler needs.
type ItemService interface {
	// List returns the collection in its persisted sorted order.
	List(ctx context.Context) ([]models.Record, error)
	// Save validates and appends a candidate record.
	Save(ctx context.Context, cand models.Candidate) (models.Record, error)
	// SetExpiration sets or changes a record's expiration instant.
	SetExpiration(ctx context.Context, id models.ID, at int64) (models.Record, error)
	// Remove deletes a record; absent identifiers are a no-op.
	Remove(ctx context.Context, id models.ID) error
	// Clear wipes the collection.
	Clear(ctx context.Context) error
	// Expiring returns the records expiring within the window.
	Expiring(ctx context.Context, window time.Duration) ([]models.Record, error)
	// Stats returns dashboard counts.
	Stats(ctx context.Context) (service.Stats, error)
	// Ingredients returns the collection's titles in sorted order.
	Ingredients(ctx context.Context) ([]string, error)
}

// ItemsHandler handles HTTP requests for the item collection.
// Recipes may be nil when no recipe service is configured.
type ItemsHandler struct {
	Service ItemService
	Recipes RecipeSuggester
	Log     *zap.Logger
}

// List handles GET /api/items. A corrupt store surfaces as an empty
// list with a logged warning, per the product's load-failure behavior.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(r.Context())
	if err != nil {
		if !errors.Is(err, repository.ErrStoreCorrupt) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		h.Log.Warn("stored collection unreadable, serving empty list", zap.Error(err))
		records = nil
	}
	writeJSON(w, http.StatusOK, recordsOrEmpty(records))
}

// Create handles POST /api/items. The body is a candidate record;
// collaborators are expected to have done their lookups already.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var cand models.Candidate
	if err := json.NewDecoder(r.Body).Decode(&cand); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.Save(r.Context(), cand)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			http.Error(w, verr.Error(), http.StatusBadRequest)
		case errors.Is(err, repository.ErrDuplicateIdentifier):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// SetExpiration handles PATCH /api/items/{id} with body {"expires_at": ms}.
func (h *ItemsHandler) SetExpiration(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req struct {
		ExpiresAt *int64 `json:"expires_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ExpiresAt == nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	rec, err := h.Service.SetExpiration(r.Context(), id, *req.ExpiresAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/items/{id}. Removal is idempotent, so a
// missing identifier still answers 204.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Service.Remove(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/items.
func (h *ItemsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Clear(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Expiring handles GET /api/expiring?days=N (default 3).
func (h *ItemsHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	window := time.Duration(0)
	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			http.Error(w, "invalid days", http.StatusBadRequest)
			return
		}
		window = time.Duration(n) * 24 * time.Hour
	}

	records, err := h.Service.Expiring(r.Context(), window)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recordsOrEmpty(records))
}

// Stats handles GET /api/stats.
func (h *ItemsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func recordsOrEmpty(records []models.Record) []models.Record {
	if records == nil {
		return []models.Record{}
	}
	return records
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
