// Package models defines the core data structures for pantry item records.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Source identifies how an item record entered the pantry.
type Source string

const (
	// SourceScanned marks records created from a barcode scan.
	SourceScanned Source = "scanned"
	// SourceManual marks records typed in by hand.
	SourceManual Source = "manual"
)

// NoScanCode is the sentinel scan code assigned to manual entries.
// Identity for those records rests entirely on the creation timestamp.
const NoScanCode = "no-code"

// WeightUnspecified is the display value used when a product weight was
// never looked up. Distinct from an empty string, which means the lookup
// ran and returned nothing.
const WeightUnspecified = "unspecified"

// Record is one pantry entry: a scanned or manually entered product with
// an optional expiration date.
type Record struct {
	// Title is the display name of the product. Required.
	Title string `json:"title"`
	// Weight is the descriptive weight label. nil means it was never
	// looked up; an empty string means the lookup returned nothing.
	Weight *string `json:"weight,omitempty"`
	// ImageURI is a remote reference to a product image.
	ImageURI string `json:"image,omitempty"`
	// InlineImage is a base64-encoded image payload for manual entries.
	// When both are set, the inline payload wins.
	InlineImage string `json:"inline_image,omitempty"`
	// ScanCode is the barcode value, or NoScanCode for manual entries.
	ScanCode string `json:"scan_code"`
	// CreatedAt is the creation instant in epoch milliseconds.
	// Assigned once, immutable thereafter.
	CreatedAt int64 `json:"created_at"`
	// ExpiresAt is the expiration instant in epoch milliseconds.
	// nil until the user picks a date.
	ExpiresAt *int64 `json:"expires_at,omitempty"`
	// Source records whether the item was scanned or entered manually.
	Source Source `json:"source"`
}

// ID is the composite identifier of a Record: scan code plus creation
// instant. No two records may share both fields.
type ID struct {
	ScanCode  string
	CreatedAt int64
}

// String renders the identifier as "scanCode:createdAtMillis".
func (id ID) String() string {
	return fmt.Sprintf("%s:%d", id.ScanCode, id.CreatedAt)
}

// ParseID parses an identifier in "scanCode:createdAtMillis" form.
func ParseID(s string) (ID, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 {
		return ID{}, fmt.Errorf("malformed record id %q", s)
	}
	ts, err := strconv.ParseInt(s[i+1:], 10, 64)
	if err != nil {
		return ID{}, fmt.Errorf("malformed record id %q", s)
	}
	return ID{ScanCode: s[:i], CreatedAt: ts}, nil
}

// Identity returns the record's composite identifier.
func (r Record) Identity() ID {
	return ID{ScanCode: r.ScanCode, CreatedAt: r.CreatedAt}
}

// DisplayWeight returns the weight label suitable for display,
// substituting the WeightUnspecified sentinel when it was never looked up.
func (r Record) DisplayWeight() string {
	if r.Weight == nil {
		return WeightUnspecified
	}
	return *r.Weight
}

// Image returns the effective image for the record. The inline payload
// takes precedence over the remote URI when both exist.
func (r Record) Image() string {
	if r.InlineImage != "" {
		return r.InlineImage
	}
	return r.ImageURI
}

// HasExpiration reports whether the user has set an expiration date.
func (r Record) HasExpiration() bool {
	return r.ExpiresAt != nil
}

// ValidationError reports a malformed candidate record, rejected before
// persistence.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Candidate is a raw item produced by a lookup collaborator or manual
// entry, not yet validated.
type Candidate struct {
	Title       string  `json:"title"`
	Weight      *string `json:"weight,omitempty"`
	ImageURI    string  `json:"image,omitempty"`
	InlineImage string  `json:"inline_image,omitempty"`
	ScanCode    string  `json:"scan_code,omitempty"`
	CreatedAt   int64   `json:"created_at,omitempty"`
	ExpiresAt   *int64  `json:"expires_at,omitempty"`
	Manual      bool    `json:"manual,omitempty"`
}

// Normalize validates a candidate and produces a well-formed Record.
// It fails with a *ValidationError when the title is empty or
// whitespace-only. Candidates without a scan code become manual entries
// keyed on the NoScanCode sentinel. Pure function, no side effects.
func Normalize(c Candidate) (Record, error) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return Record{}, &ValidationError{Field: "title", Message: "must not be empty"}
	}

	rec := Record{
		Title:       title,
		Weight:      c.Weight,
		ImageURI:    c.ImageURI,
		InlineImage: c.InlineImage,
		ScanCode:    c.ScanCode,
		CreatedAt:   c.CreatedAt,
		ExpiresAt:   c.ExpiresAt,
		Source:      SourceScanned,
	}
	if c.Manual || c.ScanCode == "" {
		rec.ScanCode = NoScanCode
		rec.Source = SourceManual
	}
	return rec, nil
}
