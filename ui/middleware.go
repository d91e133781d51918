package ui

import (
	"io/fs"
	"net/http"

	"dexadash/ui/middleware"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	// Every page and selection endpoint needs a session for the toggle state
	s.router.Use(middleware.EnsureSession(s.cookie, s.ttl, s.logger))

	staticFS, err := fs.Sub(s.files, "static")
	if err != nil {
		s.logger.Error("static filesystem unavailable, assets will 404: %v", err)
		return
	}
	s.logger.Debug("Serving static files from embedded FS at /static")
	s.router.StaticFS("/static", http.FS(staticFS))
}
