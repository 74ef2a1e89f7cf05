package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/mindflow-health/therapyflow/pkg/interval"
)

type Kind string

const (
	KindOneOff       Kind = "one-off"
	KindConsultation Kind = "consultation"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindOneOff, KindConsultation:
		return true
	}
	return false
}

// Kinds returns every bookable appointment kind, in declaration order.
func Kinds() []Kind {
	return []Kind{KindOneOff, KindConsultation}
}

// Appointment is one scheduled session. Times are naive local timestamps
// with minute precision; EndTime is derived from the requested duration at
// creation and never updated afterwards.
type Appointment struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	StartTime time.Time `gorm:"column:start_time;not null;index"`
	EndTime   time.Time `gorm:"column:end_time;not null"`
	Kind      Kind      `gorm:"column:kind;type:varchar(50);not null;index"`

	TherapistID uint `gorm:"column:therapist_id;not null;index"`

	// ClientID links the session to the requesting client. The booking path
	// never sets it; it exists for back-office tooling.
	ClientID *uuid.UUID `gorm:"column:client_id;type:uuid"`
}

func (Appointment) TableName() string {
	return "scheduling.appointments"
}

func (a *Appointment) DurationMinutes() float64 {
	return interval.Minutes(a.StartTime, a.EndTime)
}

// CheckInsert validates a candidate booking against the therapist's existing
// appointments. The past-start check runs first and short-circuits: no
// overlap scan happens for a backdated candidate. An existing row carrying
// the candidate's own ID is skipped, so re-saving a booking is idempotent.
func CheckInsert(existing []Appointment, candidate *Appointment, now time.Time) error {
	if candidate.StartTime.Before(now) {
		return ErrScheduledInPast
	}
	for i := range existing {
		x := &existing[i]
		if x.ID == candidate.ID {
			continue
		}
		if interval.Conflicts(x.StartTime, x.EndTime, candidate.StartTime, candidate.EndTime) {
			return ErrAppointmentConflict
		}
	}
	return nil
}

// QueryFilters carries the raw query inputs for a scheduling lookup. Nil
// means the caller did not supply that key. Supplied counts every query key
// the caller sent, recognized or not; a lookup with zero keys is rejected
// outright.
type QueryFilters struct {
	Supplied    int
	Start       *string
	End         *string
	Specialisms *string
	Kind        *string
}

// View is the caller-facing shape of one appointment in a query result.
type View struct {
	Time      string  `json:"time"`
	Duration  float64 `json:"duration"`
	Therapist string  `json:"therapist"`
	Kind      Kind    `json:"type"`
}

type QueryResult struct {
	Count        int
	Appointments []View
}

// CreateRequest carries the raw booking inputs. All four keys are required;
// nil means the key was absent from the request.
type CreateRequest struct {
	Start       *string
	Duration    *string
	Kind        *string
	TherapistID *string
}
