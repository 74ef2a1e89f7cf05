package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindflow-health/therapyflow/internal/domain/appointment"
	"github.com/mindflow-health/therapyflow/internal/middleware"
)

// GetAppointments serves GET /get_appointments. All filters are optional
// but at least one query key must be present.
func (h *Handler) GetAppointments(c *gin.Context) {
	filters := appointment.QueryFilters{
		Supplied:    len(c.Request.URL.Query()),
		Start:       queryParam(c, "start"),
		End:         queryParam(c, "end"),
		Specialisms: queryParam(c, "specialisms"),
		Kind:        queryParam(c, "type"),
	}

	result, err := h.scheduling.QueryAppointments(c.Request.Context(), filters)
	if err != nil {
		h.respondSchedulingError(c, err)
		return
	}

	h.metrics.QueriesTotal.Inc()
	h.respond(c, http.StatusOK,
		fmt.Sprintf("Appointments found: %d", result.Count),
		gin.H{"appointments": result.Appointments},
	)
}

// AddAppointment serves POST /add_appointment. Booking fields arrive as
// query parameters; that is a wire-format quirk existing clients rely on.
func (h *Handler) AddAppointment(c *gin.Context) {
	req := appointment.CreateRequest{
		Start:       queryParam(c, "start"),
		Duration:    queryParam(c, "duration"),
		Kind:        queryParam(c, "type"),
		TherapistID: queryParam(c, "therapist_id"),
	}

	booked, err := h.scheduling.AddAppointment(c.Request.Context(), req, middleware.Claims(c), c.ClientIP())
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			h.metrics.BookingRejectionsTotal.WithLabelValues(reason).Inc()
		}
		h.respondSchedulingError(c, err)
		return
	}

	h.metrics.BookingsTotal.WithLabelValues(string(booked.Kind)).Inc()
	h.respond(c, http.StatusOK, "Appointment added.", nil)
}
