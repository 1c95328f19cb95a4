package server

import (
	"github.com/cozy-creator/breed-classifier/internal/api"
)

func (s *Server) SetupRoutes(h *api.Handler) {
	// Health check endpoint
	s.ginEngine.GET("/healthz", h.Health)

	s.ginEngine.GET("/", h.Homepage)
	s.ginEngine.POST("/analyze", h.Analyze)
}
