package therapist

import (
	"time"

	"github.com/mindflow-health/therapyflow/internal/domain/appointment"
)

// Therapist is a practitioner. Names are display-only and not unique.
type Therapist struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name string `gorm:"column:name;type:varchar(120);not null"`

	Specialisms  []Specialism              `gorm:"many2many:scheduling.therapist_specialisms"`
	Appointments []appointment.Appointment `gorm:"foreignKey:TherapistID"`
}

func (Therapist) TableName() string {
	return "scheduling.therapists"
}

// Specialism is a named practice area a therapist may hold zero or more of.
type Specialism struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Name string `gorm:"column:name;type:varchar(128);uniqueIndex;not null"`

	Therapists []Therapist `gorm:"many2many:scheduling.therapist_specialisms"`
}

func (Specialism) TableName() string {
	return "scheduling.specialisms"
}
