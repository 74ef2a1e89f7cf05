package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mindflow-health/therapyflow/internal/domain"
	"github.com/mindflow-health/therapyflow/internal/domain/appointment"
	"github.com/mindflow-health/therapyflow/internal/domain/therapist"
)

const (
	startTimeLayout  = "2006-01-02 15:04"
	windowDateLayout = "2006-01-02"
	viewTimeLayout   = "2006-01-02 15:04:05"
)

// The unbounded window used when a caller supplies no usable date range.
var (
	windowFloor   = time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local)
	windowCeiling = time.Date(2999, 12, 12, 0, 0, 0, 0, time.Local)
)

// SchedulingService orchestrates appointment queries and bookings. It is
// credential-agnostic: requests reach it already authenticated.
type SchedulingService struct {
	appts      appointment.Repository
	therapists therapist.Repository
	auditSvc   *AuditService
	log        *zap.Logger
}

func NewSchedulingService(
	appts appointment.Repository,
	therapists therapist.Repository,
	auditSvc *AuditService,
	log *zap.Logger,
) *SchedulingService {
	return &SchedulingService{appts: appts, therapists: therapists, auditSvc: auditSvc, log: log}
}

// QueryAppointments resolves the supplied filters and returns the matching
// appointments in repository order. Filters combine with AND; the specialism
// filter is OR across its names. Each absent filter falls back to its
// match-everything default, but a request with no keys at all is rejected.
func (s *SchedulingService) QueryAppointments(ctx context.Context, f appointment.QueryFilters) (*appointment.QueryResult, error) {
	if f.Supplied == 0 {
		return nil, ErrNoQueryParameters
	}

	// The window only narrows when both bounds are supplied and parse.
	windowStart, windowEnd := windowFloor, windowCeiling
	if f.Start != nil && f.End != nil {
		if ws, we, ok := parseWindow(*f.Start, *f.End); ok {
			windowStart, windowEnd = ws, we
		}
	}

	var therapists []therapist.Therapist
	var err error
	if f.Specialisms != nil {
		names := strings.Split(*f.Specialisms, ",")
		therapists, err = s.therapists.ListBySpecialisms(ctx, names)
	} else {
		therapists, err = s.therapists.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	kinds := appointment.Kinds()
	if f.Kind != nil {
		// An unknown kind is not an error; it just matches nothing.
		kinds = []appointment.Kind{appointment.Kind(*f.Kind)}
	}

	ids := make([]uint, len(therapists))
	names := make(map[uint]string, len(therapists))
	for i := range therapists {
		ids[i] = therapists[i].ID
		names[therapists[i].ID] = therapists[i].Name
	}

	appts, err := s.appts.Find(ctx, windowStart, windowEnd, ids, kinds)
	if err != nil {
		return nil, err
	}

	views := make([]appointment.View, len(appts))
	for i := range appts {
		views[i] = appointment.View{
			Time:      appts[i].StartTime.Format(viewTimeLayout),
			Duration:  appts[i].DurationMinutes(),
			Therapist: names[appts[i].TherapistID],
			Kind:      appts[i].Kind,
		}
	}

	return &appointment.QueryResult{Count: len(appts), Appointments: views}, nil
}

// AddAppointment runs the booking pipeline: presence check, kind check,
// therapist resolution, time parsing, then the conflict-checked insert. The
// first failing stage short-circuits.
func (s *SchedulingService) AddAppointment(ctx context.Context, req appointment.CreateRequest, caller *domain.Claims, ip string) (*appointment.Appointment, error) {
	if req.Start == nil || req.Duration == nil || req.Kind == nil || req.TherapistID == nil {
		return nil, ErrMissingArguments
	}

	kind := appointment.Kind(*req.Kind)
	if !kind.IsValid() {
		return nil, appointment.ErrInvalidKind
	}

	id, err := strconv.ParseUint(*req.TherapistID, 10, 32)
	if err != nil {
		return nil, therapist.ErrTherapistNotFound
	}
	th, err := s.therapists.GetByID(ctx, uint(id))
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation(startTimeLayout, *req.Start, time.Local)
	if err != nil {
		return nil, appointment.ErrInvalidSchedule
	}
	mins, err := strconv.Atoi(*req.Duration)
	if err != nil || mins < 0 {
		return nil, appointment.ErrInvalidSchedule
	}

	a := &appointment.Appointment{
		StartTime:   start,
		EndTime:     start.Add(time.Duration(mins) * time.Minute),
		Kind:        kind,
		TherapistID: th.ID,
	}

	if err := s.appts.Insert(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info("appointment booked",
		zap.Uint("appointment_id", a.ID),
		zap.Uint("therapist_id", th.ID),
		zap.String("kind", string(kind)),
	)

	entry := AuditEntry{
		Action:       domain.ActionCreate,
		ResourceType: "appointment",
		ResourceID:   strconv.FormatUint(uint64(a.ID), 10),
		IPAddress:    ip,
	}
	if caller != nil {
		entry.UserID = caller.UserID
	}
	s.auditSvc.LogAsync(entry)

	return a, nil
}

// parseWindow accepts either bare dates or minute-precision timestamps.
func parseWindow(start, end string) (time.Time, time.Time, bool) {
	ws, err := parseFlexible(start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	we, err := parseFlexible(end)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return ws, we, true
}

func parseFlexible(v string) (time.Time, error) {
	if t, err := time.ParseInLocation(windowDateLayout, v, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(startTimeLayout, v, time.Local)
}
