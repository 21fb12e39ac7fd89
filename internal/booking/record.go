package booking

import (
	"sort"
	"time"
)

// RefLayout formats the confirmation instant into a booking reference.
const RefLayout = "20060102150405"

// Record is one confirmed booking as persisted.
type Record struct {
	Ref       string `json:"ref" db:"ref"`
	Departure string `json:"departure" db:"departure"`
	Arrival   string `json:"arrival" db:"arrival"`
	Date      string `json:"date" db:"travel_date"`
	Airline   string `json:"airline" db:"airline"`
}

// NewRef derives a booking reference from the confirmation time.
func NewRef(now time.Time) string { return now.Format(RefLayout) }

// Bookings maps a Telegram user id (decimal string) to that user's records in insertion order.
type Bookings map[string][]Record

// Count returns the total number of records.
func (b Bookings) Count() int {
	n := 0
	for _, recs := range b {
		n += len(recs)
	}
	return n
}

// Users returns the user ids with at least one record, sorted.
func (b Bookings) Users() []string {
	ids := make([]string, 0, len(b))
	for id, recs := range b {
		if len(recs) > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Append adds rec to the end of the user's list.
func (b Bookings) Append(userID string, rec Record) {
	b[userID] = append(b[userID], rec)
}

// Remove drops every record of userID with the given ref and returns how many went.
// Other users are untouched; the user's entry stays as an empty list.
func (b Bookings) Remove(userID, ref string) int {
	recs, ok := b[userID]
	if !ok {
		return 0
	}
	kept := make([]Record, 0, len(recs))
	for _, r := range recs {
		if r.Ref != ref {
			kept = append(kept, r)
		}
	}
	b[userID] = kept
	return len(recs) - len(kept)
}
