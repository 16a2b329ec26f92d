package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kwpulse/internal/db"
	"kwpulse/internal/handlers/api"
	"kwpulse/internal/jobs"
	"kwpulse/internal/middleware"
	"kwpulse/internal/resolver"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(database *db.DB, res *resolver.Resolver, refresher *jobs.Refresher) {
	keywordHandler := api.NewKeywordHandler(res, refresher, database)
	probeHandler := api.NewProbeHandler(database)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Keyword pipeline API - requester identity comes from the upstream
	// auth layer, so every route requires it.
	apiGroup := s.App.Group("/api", middleware.RequireRequester)
	apiGroup.Post("/keywords/resolve", keywordHandler.Resolve)
	apiGroup.Post("/keywords/refresh", keywordHandler.Refresh)
	apiGroup.Get("/keywords/saved", keywordHandler.ListSaved)
	apiGroup.Put("/keywords/saved", keywordHandler.ReplaceSaved)
}
