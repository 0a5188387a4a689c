package models

import (
	"cmp"
	"sort"
)

// Compare is the total order used everywhere records are listed:
// soonest-expiring first, records with a known expiration before records
// without one, and records without one by ascending creation instant.
// Returns a negative number when a sorts before b, zero when equivalent.
func Compare(a, b Record) int {
	switch {
	case a.ExpiresAt != nil && b.ExpiresAt != nil:
		return cmp.Compare(*a.ExpiresAt, *b.ExpiresAt)
	case a.ExpiresAt != nil:
		return -1
	case b.ExpiresAt != nil:
		return 1
	default:
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	}
}

// Sort orders records in place using Compare. The sort is stable:
// equivalent records keep their relative input order, so re-sorting an
// already sorted collection is a no-op.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return Compare(records[i], records[j]) < 0
	})
}
