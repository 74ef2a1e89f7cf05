package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mindflow-health/therapyflow/internal/domain"
	"github.com/mindflow-health/therapyflow/internal/domain/appointment"
	"github.com/mindflow-health/therapyflow/internal/domain/therapist"
	"github.com/mindflow-health/therapyflow/internal/service"
	"github.com/mindflow-health/therapyflow/pkg/metrics"
)

// promauto registers against the global registry, so one collector serves
// the whole test binary.
var testMetrics = metrics.NewCollector("therapyflow_service_test")

// ---- fakes ----

type fakeAppointmentRepo struct {
	mu     sync.Mutex
	appts  []appointment.Appointment
	nextID uint
}

func (r *fakeAppointmentRepo) Find(_ context.Context, windowStart, windowEnd time.Time, therapistIDs []uint, kinds []appointment.Kind) ([]appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := map[uint]bool{}
	for _, id := range therapistIDs {
		ids[id] = true
	}
	wanted := map[appointment.Kind]bool{}
	for _, k := range kinds {
		wanted[k] = true
	}

	var out []appointment.Appointment
	for _, a := range r.appts {
		if a.StartTime.Before(windowStart) || a.StartTime.After(windowEnd) {
			continue
		}
		if !ids[a.TherapistID] || !wanted[a.Kind] {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Insert(_ context.Context, candidate *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var existing []appointment.Appointment
	for _, a := range r.appts {
		if a.TherapistID == candidate.TherapistID {
			existing = append(existing, a)
		}
	}
	if err := appointment.CheckInsert(existing, candidate, time.Now()); err != nil {
		return err
	}
	r.nextID++
	candidate.ID = r.nextID
	r.appts = append(r.appts, *candidate)
	return nil
}

func (r *fakeAppointmentRepo) seed(a appointment.Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a.ID = r.nextID
	r.appts = append(r.appts, a)
}

type fakeTherapistRepo struct {
	therapists []therapist.Therapist
}

func (r *fakeTherapistRepo) Create(_ context.Context, t *therapist.Therapist) error {
	t.ID = uint(len(r.therapists) + 1)
	r.therapists = append(r.therapists, *t)
	return nil
}

func (r *fakeTherapistRepo) GetByID(_ context.Context, id uint) (*therapist.Therapist, error) {
	for i := range r.therapists {
		if r.therapists[i].ID == id {
			return &r.therapists[i], nil
		}
	}
	return nil, therapist.ErrTherapistNotFound
}

func (r *fakeTherapistRepo) ListAll(_ context.Context) ([]therapist.Therapist, error) {
	return r.therapists, nil
}

func (r *fakeTherapistRepo) ListBySpecialisms(_ context.Context, names []string) ([]therapist.Therapist, error) {
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[n] = true
	}
	var out []therapist.Therapist
	for _, t := range r.therapists {
		for _, s := range t.Specialisms {
			if wanted[s.Name] {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// ---- scenario fixture ----

// newScheduler seeds the demo roster: John Smith (Addiction, CBT) with a
// 60-minute one-off starting in one minute and a 30-minute consultation in
// 14 days; Jane Smith (Sexuality, CBT) with a 60-minute one-off in one
// minute and a 45-minute consultation in 3 days.
func newScheduler(t *testing.T) (*service.SchedulingService, *fakeAppointmentRepo, *fakeTherapistRepo) {
	t.Helper()

	specialisms := map[string]therapist.Specialism{
		"Addiction": {ID: 1, Name: "Addiction"},
		"CBT":       {ID: 2, Name: "CBT"},
		"Sexuality": {ID: 3, Name: "Sexuality"},
	}
	therapists := &fakeTherapistRepo{therapists: []therapist.Therapist{
		{ID: 1, Name: "John Smith", Specialisms: []therapist.Specialism{specialisms["Addiction"], specialisms["CBT"]}},
		{ID: 2, Name: "Jane Smith", Specialisms: []therapist.Specialism{specialisms["Sexuality"], specialisms["CBT"]}},
	}}

	now := time.Now()
	appts := &fakeAppointmentRepo{}
	appts.seed(appointment.Appointment{TherapistID: 1, Kind: appointment.KindOneOff,
		StartTime: now.Add(1 * time.Minute), EndTime: now.Add(61 * time.Minute)})
	appts.seed(appointment.Appointment{TherapistID: 1, Kind: appointment.KindConsultation,
		StartTime: now.AddDate(0, 0, 14), EndTime: now.AddDate(0, 0, 14).Add(30 * time.Minute)})
	appts.seed(appointment.Appointment{TherapistID: 2, Kind: appointment.KindOneOff,
		StartTime: now.Add(1 * time.Minute), EndTime: now.Add(61 * time.Minute)})
	appts.seed(appointment.Appointment{TherapistID: 2, Kind: appointment.KindConsultation,
		StartTime: now.AddDate(0, 0, 3), EndTime: now.AddDate(0, 0, 3).Add(45 * time.Minute)})

	auditSvc := service.NewAuditService(&fakeAuditRepo{}, testMetrics, zap.NewNop())
	t.Cleanup(auditSvc.Shutdown)

	svc := service.NewSchedulingService(appts, therapists, auditSvc, zap.NewNop())
	return svc, appts, therapists
}

func strPtr(s string) *string { return &s }

// ---- query tests ----

func TestQueryNoParameters(t *testing.T) {
	svc, _, _ := newScheduler(t)

	_, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{Supplied: 0})
	assert.ErrorIs(t, err, service.ErrNoQueryParameters)
}

func TestQueryBySpecialism(t *testing.T) {
	svc, _, _ := newScheduler(t)

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied:    1,
		Specialisms: strPtr("Addiction"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Appointments, 2)
	assert.Equal(t, "John Smith", res.Appointments[0].Therapist)
	assert.Equal(t, appointment.KindOneOff, res.Appointments[0].Kind)
	assert.Equal(t, 60.0, res.Appointments[0].Duration)
	assert.Equal(t, "John Smith", res.Appointments[1].Therapist)
	assert.Equal(t, appointment.KindConsultation, res.Appointments[1].Kind)
	assert.Equal(t, 30.0, res.Appointments[1].Duration)
}

func TestQuerySpecialismsAreORed(t *testing.T) {
	svc, _, _ := newScheduler(t)

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied:    1,
		Specialisms: strPtr("Addiction,Sexuality"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
}

func TestQueryByKind(t *testing.T) {
	svc, _, _ := newScheduler(t)

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied: 1,
		Kind:     strPtr("one-off"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Appointments, 2)
	assert.Equal(t, "John Smith", res.Appointments[0].Therapist)
	assert.Equal(t, "Jane Smith", res.Appointments[1].Therapist)
}

func TestQueryByDateRange(t *testing.T) {
	svc, _, _ := newScheduler(t)

	// A window covering only Jane's consultation three days out.
	start := time.Now().AddDate(0, 0, 2).Format("2006-01-02")
	end := time.Now().AddDate(0, 0, 4).Format("2006-01-02")

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied: 2,
		Start:    strPtr(start),
		End:      strPtr(end),
	})
	require.NoError(t, err)

	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Jane Smith", res.Appointments[0].Therapist)
	assert.Equal(t, 45.0, res.Appointments[0].Duration)
}

func TestQueryCombinedFilters(t *testing.T) {
	svc, _, _ := newScheduler(t)

	// Wide window, but specialism and kind narrow it to John's one-off.
	start := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	end := time.Now().AddDate(0, 1, 0).Format("2006-01-02")

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied:    4,
		Start:       strPtr(start),
		End:         strPtr(end),
		Specialisms: strPtr("Addiction"),
		Kind:        strPtr("one-off"),
	})
	require.NoError(t, err)

	require.Equal(t, 1, res.Count)
	assert.Equal(t, "John Smith", res.Appointments[0].Therapist)
	assert.Equal(t, appointment.KindOneOff, res.Appointments[0].Kind)
}

func TestQueryUnknownSpecialismMatchesNothing(t *testing.T) {
	svc, _, _ := newScheduler(t)

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied:    1,
		Specialisms: strPtr("Phrenology"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Appointments)
}

func TestQueryUnknownKindMatchesNothing(t *testing.T) {
	svc, _, _ := newScheduler(t)

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied: 1,
		Kind:     strPtr("seance"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
}

func TestQueryUnparseableWindowFallsBackToUnbounded(t *testing.T) {
	svc, _, _ := newScheduler(t)

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied: 2,
		Start:    strPtr("not-a-date"),
		End:      strPtr("also-not-a-date"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Count)
}

// ---- booking tests ----

func addReq(start, duration, kind, therapistID string) appointment.CreateRequest {
	return appointment.CreateRequest{
		Start:       &start,
		Duration:    &duration,
		Kind:        &kind,
		TherapistID: &therapistID,
	}
}

func futureStart(d time.Duration) string {
	return time.Now().Add(d).Format("2006-01-02 15:04")
}

func TestAddMissingArguments(t *testing.T) {
	svc, _, _ := newScheduler(t)

	req := addReq(futureStart(48*time.Hour), "60", "one-off", "1")
	req.Duration = nil

	_, err := svc.AddAppointment(context.Background(), req, nil, "")
	assert.ErrorIs(t, err, service.ErrMissingArguments)
}

func TestAddUnknownKind(t *testing.T) {
	svc, _, _ := newScheduler(t)

	_, err := svc.AddAppointment(context.Background(),
		addReq(futureStart(48*time.Hour), "60", "emergency", "1"), nil, "")
	assert.ErrorIs(t, err, appointment.ErrInvalidKind)
}

func TestAddTherapistNotFound(t *testing.T) {
	svc, _, _ := newScheduler(t)

	for _, id := range []string{"99", "abc", "-1"} {
		_, err := svc.AddAppointment(context.Background(),
			addReq(futureStart(48*time.Hour), "60", "one-off", id), nil, "")
		assert.ErrorIs(t, err, therapist.ErrTherapistNotFound, "therapist_id=%s", id)
	}
}

func TestAddInvalidStartOrDuration(t *testing.T) {
	svc, _, _ := newScheduler(t)

	tests := []struct {
		name     string
		start    string
		duration string
	}{
		{"garbage start", "soon", "60"},
		{"wrong layout", "2026-06-01T10:00:00Z", "60"},
		{"garbage duration", futureStart(48 * time.Hour), "sixty"},
		{"negative duration", futureStart(48 * time.Hour), "-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddAppointment(context.Background(),
				addReq(tt.start, tt.duration, "one-off", "1"), nil, "")
			assert.ErrorIs(t, err, appointment.ErrInvalidSchedule)
		})
	}
}

func TestAddPastStart(t *testing.T) {
	svc, _, _ := newScheduler(t)

	_, err := svc.AddAppointment(context.Background(),
		addReq(time.Now().Add(-24*time.Hour).Format("2006-01-02 15:04"), "60", "one-off", "1"), nil, "")
	assert.ErrorIs(t, err, appointment.ErrScheduledInPast)
}

func TestAddThenQueryReturnsItOnce(t *testing.T) {
	svc, _, _ := newScheduler(t)

	start := futureStart(72 * time.Hour)
	booked, err := svc.AddAppointment(context.Background(),
		addReq(start, "45", "consultation", "1"), nil, "")
	require.NoError(t, err)
	assert.NotZero(t, booked.ID)

	res, err := svc.QueryAppointments(context.Background(), appointment.QueryFilters{
		Supplied:    1,
		Specialisms: strPtr("Addiction"),
	})
	require.NoError(t, err)

	matches := 0
	for _, v := range res.Appointments {
		if v.Kind == appointment.KindConsultation && v.Duration == 45.0 {
			matches++
		}
	}
	assert.Equal(t, 1, matches)
}

func TestAddTwiceSecondOverlaps(t *testing.T) {
	svc, _, _ := newScheduler(t)

	req := addReq(futureStart(168*time.Hour), "60", "one-off", "2")

	_, err := svc.AddAppointment(context.Background(), req, nil, "")
	require.NoError(t, err)

	_, err = svc.AddAppointment(context.Background(), req, nil, "")
	assert.ErrorIs(t, err, appointment.ErrAppointmentConflict)
}

func TestAddOverlappingSeededOneOff(t *testing.T) {
	svc, appts, _ := newScheduler(t)

	// Same start and duration as John's existing one-off, minute-truncated
	// the way the wire format demands.
	johnsOneOff := appts.appts[0]
	req := addReq(johnsOneOff.StartTime.Format("2006-01-02 15:04"), "60", "one-off", "1")

	_, err := svc.AddAppointment(context.Background(), req, nil, "")
	assert.ErrorIs(t, err, appointment.ErrAppointmentConflict)
}

func TestAddStartingAtExistingEndOverlaps(t *testing.T) {
	svc, _, _ := newScheduler(t)

	start := time.Now().Add(96 * time.Hour).Truncate(time.Minute)
	first := addReq(start.Format("2006-01-02 15:04"), "60", "one-off", "2")
	_, err := svc.AddAppointment(context.Background(), first, nil, "")
	require.NoError(t, err)

	// Closed intervals: a booking starting exactly at the previous one's
	// end still conflicts.
	second := addReq(start.Add(60*time.Minute).Format("2006-01-02 15:04"), "30", "one-off", "2")
	_, err = svc.AddAppointment(context.Background(), second, nil, "")
	assert.ErrorIs(t, err, appointment.ErrAppointmentConflict)
}

func TestAddAssignsContiguousIDs(t *testing.T) {
	svc, _, _ := newScheduler(t)

	a, err := svc.AddAppointment(context.Background(),
		addReq(futureStart(120*time.Hour), "30", "consultation", "1"), nil, "")
	require.NoError(t, err)

	b, err := svc.AddAppointment(context.Background(),
		addReq(futureStart(144*time.Hour), "30", "consultation", "2"), nil, "")
	require.NoError(t, err)

	assert.Equal(t, a.ID+1, b.ID, fmt.Sprintf("expected storage order, got %d then %d", a.ID, b.ID))
}
