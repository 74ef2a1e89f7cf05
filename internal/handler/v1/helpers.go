package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mindflow-health/therapyflow/internal/domain/appointment"
	"github.com/mindflow-health/therapyflow/internal/domain/therapist"
	"github.com/mindflow-health/therapyflow/internal/service"
	"github.com/mindflow-health/therapyflow/pkg/metrics"
)

type Handler struct {
	scheduling *service.SchedulingService
	auth       *service.AuthService
	metrics    *metrics.Collector
	log        *zap.Logger
}

func New(scheduling *service.SchedulingService, auth *service.AuthService, m *metrics.Collector, log *zap.Logger) *Handler {
	return &Handler{scheduling: scheduling, auth: auth, metrics: m, log: log}
}

// respond writes the uniform {"message": ...} envelope, folding in any
// extra payload fields. Client and server failures are logged.
func (h *Handler) respond(c *gin.Context, status int, msg string, extras gin.H) {
	body := gin.H{"message": msg}
	for k, v := range extras {
		body[k] = v
	}
	if status >= 500 {
		h.log.Error("request failed", zap.Int("status", status), zap.String("message", msg))
	} else if status >= 400 {
		h.log.Warn("request rejected", zap.Int("status", status), zap.String("message", msg))
	}
	c.JSON(status, body)
}

// respondSchedulingError maps the scheduling error taxonomy onto the exact
// message strings and status codes callers depend on. Unexpected errors
// collapse to a generic 500; internal detail never leaks.
func (h *Handler) respondSchedulingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoQueryParameters):
		h.respond(c, http.StatusBadRequest, "No query parameters found.", nil)

	case errors.Is(err, service.ErrMissingArguments):
		h.respond(c, http.StatusBadRequest,
			"Missing arguments. All of [start, duration, type, therapist_id] are required.", nil)

	case errors.Is(err, appointment.ErrInvalidKind):
		h.respond(c, http.StatusBadRequest,
			fmt.Sprintf("Incorrect type. Must be one of %s", kindsList()), nil)

	case errors.Is(err, therapist.ErrTherapistNotFound):
		h.respond(c, http.StatusBadRequest, "Therapist not found.", nil)

	case errors.Is(err, appointment.ErrInvalidSchedule):
		h.respond(c, http.StatusBadRequest, "Invalid start time or duration.", nil)

	case errors.Is(err, appointment.ErrScheduledInPast):
		h.respond(c, http.StatusBadRequest, "Cannot add an appointment in the past.", nil)

	case errors.Is(err, appointment.ErrAppointmentConflict):
		h.respond(c, http.StatusBadRequest, "Overlapping with existing appointment.", nil)

	default:
		h.log.Error("unexpected scheduling failure", zap.Error(err))
		h.respond(c, http.StatusInternalServerError, "Internal server error.", nil)
	}
}

// rejectionReason labels expected booking failures for metrics. Empty for
// unexpected errors.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingArguments):
		return "missing_arguments"
	case errors.Is(err, appointment.ErrInvalidKind):
		return "invalid_kind"
	case errors.Is(err, therapist.ErrTherapistNotFound):
		return "therapist_not_found"
	case errors.Is(err, appointment.ErrInvalidSchedule):
		return "invalid_schedule"
	case errors.Is(err, appointment.ErrScheduledInPast):
		return "past_start"
	case errors.Is(err, appointment.ErrAppointmentConflict):
		return "overlap"
	}
	return ""
}

// kindsList renders the valid kinds the way callers have always seen them,
// e.g. ['one-off', 'consultation'].
func kindsList() string {
	kinds := appointment.Kinds()
	quoted := make([]string, len(kinds))
	for i, k := range kinds {
		quoted[i] = "'" + string(k) + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// queryParam returns a pointer to the first value of key, or nil when the
// key was not supplied at all.
func queryParam(c *gin.Context, key string) *string {
	if vals, ok := c.Request.URL.Query()[key]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}
