// Package service provides the pantry business logic: the expiration
// window evaluator, the notification scheduler, and the item service
// that both binaries drive.
package service

import (
	"time"

	"github.com/avolkov/pantrypal/internal/models"
)

// DefaultWindow is the product's "expiring soon" lookahead: 3 days.
const DefaultWindow = 3 * 24 * time.Hour

// ExpiringWithin returns the records whose expiration instant lies in
// the closed interval [now, now+window]. Records without an expiration
// are excluded. Pure function of its inputs; the collection's order is
// preserved in the result.
func ExpiringWithin(records []models.Record, now time.Time, window time.Duration) []models.Record {
	from := now.UnixMilli()
	to := from + window.Milliseconds()

	var expiring []models.Record
	for _, rec := range records {
		if rec.ExpiresAt == nil {
			continue
		}
		if at := *rec.ExpiresAt; at >= from && at <= to {
			expiring = append(expiring, rec)
		}
	}
	return expiring
}
