package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindflow-health/therapyflow/internal/middleware"
	"github.com/mindflow-health/therapyflow/pkg/auth"
	"github.com/mindflow-health/therapyflow/pkg/metrics"
)

// RegisterRoutes wires the public surface. Scheduling endpoints sit behind
// the auth gate; auth endpoints sit behind the per-IP rate limit.
func (h *Handler) RegisterRoutes(r *gin.Engine, jwtManager *auth.JWTManager, limiter *middleware.RateLimiter) {
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(h.metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	limited := r.Group("", middleware.RateLimit(limiter))
	limited.POST("/register", h.Register)
	limited.POST("/login", h.Login)

	authed := r.Group("", middleware.AuthRequired(jwtManager))
	authed.GET("/get_appointments", h.GetAppointments)
	authed.POST("/add_appointment", h.AddAppointment)
}
