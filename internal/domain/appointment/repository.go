package appointment

import (
	"context"
	"time"
)

type Repository interface {
	// Find returns appointments whose start time falls within [windowStart,
	// windowEnd] inclusive, whose therapist is in therapistIDs and whose
	// kind is in kinds. Results come back in storage order.
	Find(ctx context.Context, windowStart, windowEnd time.Time, therapistIDs []uint, kinds []Kind) ([]Appointment, error)

	// Insert persists a candidate booking after running the past-start and
	// overlap checks against the therapist's existing appointments. The
	// read-check-write sequence is serialized per therapist, so two
	// concurrent inserts for the same therapist cannot both pass the check.
	// Returns ErrScheduledInPast or ErrAppointmentConflict on rejection; the
	// candidate's ID is populated on success.
	Insert(ctx context.Context, candidate *Appointment) error
}
