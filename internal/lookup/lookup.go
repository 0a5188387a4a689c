// Package lookup contains the thin HTTP clients for the external
// product and recipe collaborators. They hand the core well-formed
// candidates and consume the ordered collection; no retry policy lives
// here.
package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ErrProductNotFound signals that the collaborator has no record for a
// scan code; the caller falls back to manual entry.
var ErrProductNotFound = errors.New("product not found")

// Candidate is the product data a lookup collaborator returns.
type Candidate struct {
	// Title is the product display name.
	Title string `json:"title"`
	// Weight is the product weight label; nil when the collaborator
	// does not report one, "" when it reports it as empty.
	Weight *string `json:"weight,omitempty"`
	// ImageURI is a remote product image reference.
	ImageURI string `json:"image,omitempty"`
}

// ProductLookup resolves a scan code into product data.
type ProductLookup interface {
	Lookup(ctx context.Context, scanCode string) (*Candidate, error)
}

// HTTPLookup is the HTTP implementation of ProductLookup.
type HTTPLookup struct {
	client  *http.Client
	baseURL string
}

// NewHTTPLookup creates a lookup client against baseURL. A nil client
// falls back to http.DefaultClient.
func NewHTTPLookup(client *http.Client, baseURL string) *HTTPLookup {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLookup{client: client, baseURL: baseURL}
}

// Lookup fetches product data for the scan code. A 404 from the
// collaborator maps to ErrProductNotFound.
func (l *HTTPLookup) Lookup(ctx context.Context, scanCode string) (*Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		l.baseURL+"/api/upc/"+url.PathEscape(scanCode), nil)
	if err != nil {
		return nil, fmt.Errorf("building lookup request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var cand Candidate
	if err := json.NewDecoder(resp.Body).Decode(&cand); err != nil {
		return nil, fmt.Errorf("decoding lookup response: %w", err)
	}
	return &cand, nil
}
