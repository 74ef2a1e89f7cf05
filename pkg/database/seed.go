package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mindflow-health/therapyflow/internal/domain"
	"github.com/mindflow-health/therapyflow/internal/domain/appointment"
	"github.com/mindflow-health/therapyflow/internal/domain/therapist"
)

// SeedDemoData loads a small demo roster: one API user and two therapists
// with a handful of upcoming appointments. A no-op when therapists already
// exist.
func SeedDemoData(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&therapist.Therapist{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("scheduling tables already populated, skipping demo seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("randompassword"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &domain.User{Email: "someone@test.com", PasswordHash: string(hash), IsActive: true}
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	specialisms := map[string]*therapist.Specialism{}
	for _, name := range []string{"Addiction", "CBT", "Sexuality"} {
		s := &therapist.Specialism{Name: name}
		if err := db.Create(s).Error; err != nil {
			return fmt.Errorf("seeding specialism %s: %w", name, err)
		}
		specialisms[name] = s
	}

	now := time.Now()
	roster := []struct {
		name        string
		specialisms []string
		sessions    []appointment.Appointment
	}{
		{
			name:        "John Smith",
			specialisms: []string{"Addiction", "CBT"},
			sessions: []appointment.Appointment{
				{StartTime: now.Add(1 * time.Minute), EndTime: now.Add(61 * time.Minute), Kind: appointment.KindOneOff},
				{StartTime: now.AddDate(0, 0, 14), EndTime: now.AddDate(0, 0, 14).Add(30 * time.Minute), Kind: appointment.KindConsultation},
			},
		},
		{
			name:        "Jane Smith",
			specialisms: []string{"Sexuality", "CBT"},
			sessions: []appointment.Appointment{
				{StartTime: now.Add(1 * time.Minute), EndTime: now.Add(61 * time.Minute), Kind: appointment.KindOneOff},
				{StartTime: now.AddDate(0, 0, 3), EndTime: now.AddDate(0, 0, 3).Add(45 * time.Minute), Kind: appointment.KindConsultation},
			},
		},
	}

	for _, entry := range roster {
		t := &therapist.Therapist{Name: entry.name}
		for _, name := range entry.specialisms {
			t.Specialisms = append(t.Specialisms, *specialisms[name])
		}
		if err := db.Create(t).Error; err != nil {
			return fmt.Errorf("seeding therapist %s: %w", entry.name, err)
		}
		for _, session := range entry.sessions {
			session.TherapistID = t.ID
			if err := db.Create(&session).Error; err != nil {
				return fmt.Errorf("seeding appointments for %s: %w", entry.name, err)
			}
		}
	}

	log.Info("demo data seeded", zap.Int("therapists", len(roster)))
	return nil
}
