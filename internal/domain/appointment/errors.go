package appointment

import "errors"

var (
	ErrAppointmentConflict = errors.New("appointment overlaps an existing booking")
	ErrScheduledInPast     = errors.New("cannot add an appointment in the past")
	ErrInvalidKind         = errors.New("invalid appointment kind")
	ErrInvalidSchedule     = errors.New("invalid start time or duration")
)
