package api

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	db Pinger
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(database Pinger) *ProbeHandler {
	return &ProbeHandler{db: database}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the application can serve traffic (database is reachable).
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "database unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
