package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mindflow-health/therapyflow/internal/domain/therapist"
)

// TherapistRepository reads the practitioner directory. The scheduling core
// treats it as read-only; Create exists for seeding and admin tooling.
type TherapistRepository struct {
	db *gorm.DB
}

func NewTherapistRepository(db *gorm.DB) *TherapistRepository {
	return &TherapistRepository{db: db}
}

func (r *TherapistRepository) Create(ctx context.Context, t *therapist.Therapist) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("creating therapist: %w", err)
	}
	return nil
}

func (r *TherapistRepository) GetByID(ctx context.Context, id uint) (*therapist.Therapist, error) {
	var t therapist.Therapist
	err := r.db.WithContext(ctx).First(&t, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, therapist.ErrTherapistNotFound
		}
		return nil, fmt.Errorf("loading therapist %d: %w", id, err)
	}
	return &t, nil
}

func (r *TherapistRepository) ListAll(ctx context.Context) ([]therapist.Therapist, error) {
	var out []therapist.Therapist
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing therapists: %w", err)
	}
	return out, nil
}

func (r *TherapistRepository) ListBySpecialisms(ctx context.Context, names []string) ([]therapist.Therapist, error) {
	var out []therapist.Therapist
	err := r.db.WithContext(ctx).
		Distinct("scheduling.therapists.*").
		Joins("JOIN scheduling.therapist_specialisms ts ON ts.therapist_id = scheduling.therapists.id").
		Joins("JOIN scheduling.specialisms s ON s.id = ts.specialism_id").
		Where("s.name IN ?", names).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing therapists by specialism: %w", err)
	}
	return out, nil
}
