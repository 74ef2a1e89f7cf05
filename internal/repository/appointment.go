package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mindflow-health/therapyflow/internal/domain/appointment"
)

const insertStripes = 64

// AppointmentRepository owns the persisted appointment records.
//
// Insert serializes its read-check-write sequence through a striped mutex
// keyed by therapist ID. Two concurrent bookings for the same therapist
// therefore cannot both pass the overlap check; bookings for different
// therapists proceed in parallel (modulo stripe collisions). The lock is
// process-local, so a multi-instance deployment would need a database
// constraint instead.
type AppointmentRepository struct {
	db    *gorm.DB
	locks [insertStripes]sync.Mutex
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) stripe(therapistID uint) *sync.Mutex {
	return &r.locks[therapistID%insertStripes]
}

func (r *AppointmentRepository) Find(ctx context.Context, windowStart, windowEnd time.Time, therapistIDs []uint, kinds []appointment.Kind) ([]appointment.Appointment, error) {
	var out []appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("start_time >= ? AND start_time <= ?", windowStart, windowEnd).
		Where("therapist_id IN ?", therapistIDs).
		Where("kind IN ?", kinds).
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("finding appointments: %w", err)
	}
	return out, nil
}

func (r *AppointmentRepository) Insert(ctx context.Context, candidate *appointment.Appointment) error {
	mu := r.stripe(candidate.TherapistID)
	mu.Lock()
	defer mu.Unlock()

	var existing []appointment.Appointment
	err := r.db.WithContext(ctx).
		Where("therapist_id = ?", candidate.TherapistID).
		Find(&existing).Error
	if err != nil {
		return fmt.Errorf("loading therapist bookings: %w", err)
	}

	if err := appointment.CheckInsert(existing, candidate, time.Now()); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return fmt.Errorf("creating appointment: %w", err)
	}
	return nil
}
