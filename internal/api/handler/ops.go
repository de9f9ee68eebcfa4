// Package handler provides HTTP handlers for the PedalMate API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/api/response"
	"github.com/pedalmate/pedalmate/internal/provider/resilience"
)

// Pinger reports whether a backing dependency is reachable. *pgxpool.Pool
// satisfies it directly.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	db        Pinger
}

// NewOpsHandler creates a new OpsHandler. db may be nil when the service
// runs without a database, as in tests.
func NewOpsHandler(version, buildTime string, db Pinger) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		db:        db,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
	}

	dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			detail := err.Error()
			dbStatus.Status = models.HealthStatusFail
			dbStatus.Detail = &detail
			status.Status = models.HealthStatusDegraded
		}
	}
	status.Subsystems = append(status.Subsystems, dbStatus)

	// External providers report through the circuit breaker registry.
	for _, health := range resilience.GlobalRegistry.GetAllHealth() {
		sub := models.SubsystemStatus{Name: health.Name, Status: models.HealthStatusOK}
		switch {
		case health.IsUnhealthy():
			sub.Status = models.HealthStatusFail
			status.Status = models.HealthStatusDegraded
		case health.IsDegraded():
			sub.Status = models.HealthStatusDegraded
			status.Status = models.HealthStatusDegraded
		}
		if health.LastError != "" {
			detail := health.LastError
			sub.Detail = &detail
		}
		status.Subsystems = append(status.Subsystems, sub)
	}

	response.JSON(w, r, http.StatusOK, status)
}
