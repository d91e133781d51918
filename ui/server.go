package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"dexadash/internal"
	"dexadash/internal/selection"
	"dexadash/internal/view"
	"dexadash/ui/services"
	"dexadash/ui/templates/fragments"

	"github.com/gin-gonic/gin"
)

//go:embed templates static
var embeddedFiles embed.FS

// Dependencies wires the dashboard server to the rest of the application
type Dependencies struct {
	Assembler  *view.Assembler
	Sessions   *selection.Store
	CookieName string
	SessionTTL time.Duration
	Logger     *internal.Logger
	// Files holds templates/ and static/; nil selects the embedded copy
	Files fs.FS
}

// Server represents the web server for the DEXA dashboard
type Server struct {
	router    *gin.Engine
	assembler *view.Assembler
	sessions  *selection.Store
	templates *template.Template
	render    *services.RenderService
	files     fs.FS
	cookie    string
	ttl       time.Duration
	logger    *internal.Logger
}

// NewServer creates a new web server instance with parsed templates and routes
func NewServer(deps Dependencies) (*Server, error) {
	if deps.Assembler == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("assembler and session store are required")
	}
	if deps.Logger == nil {
		deps.Logger = internal.DefaultLogger
	}
	if deps.Files == nil {
		deps.Files = embeddedFiles
	}
	if deps.CookieName == "" {
		deps.CookieName = "dexa_session"
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = 24 * time.Hour
	}

	s := &Server{
		router:    gin.Default(),
		assembler: deps.Assembler,
		sessions:  deps.Sessions,
		files:     deps.Files,
		cookie:    deps.CookieName,
		ttl:       deps.SessionTTL,
		logger:    deps.Logger.With("Server"),
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}
	s.render = services.NewRenderService(s.templates, s.logger)

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) funcMap() template.FuncMap {
	return template.FuncMap{
		"markdown": func(md string) template.HTML {
			return s.render.Markdown(md)
		},
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return "—"
			}
			return t.Format("02 Jan 2006")
		},
		"add": func(a, b int) int { return a + b },
	}
}

// parseTemplates registers every template under its path relative to templates/
func (s *Server) parseTemplates() error {
	templatesFS, err := fs.Sub(s.files, "templates")
	if err != nil {
		return fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	s.templates = template.New("").Funcs(s.funcMap())
	for _, name := range fragments.GetAllTemplatePaths() {
		content, err := fs.ReadFile(templatesFS, name)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err := s.templates.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		s.logger.Trace("parsed %s template %s", fragments.GetTemplateCategory(name), name)
	}
	s.logger.Debug("parsed %d templates", len(fragments.GetAllTemplatePaths()))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	data := NewDataHandler(s.assembler, s.sessions, s.render, s.logger)

	// Pages
	s.router.GET("/", s.handleOverview)
	s.router.GET("/body-part-trend", s.handleBodyPartTrend)
	s.router.POST("/body-part-trend/toggle", s.handleBodyPartToggle)
	s.router.GET("/dexa-dashboard", s.handleComposition)
	s.router.GET("/symmetry", s.handleSymmetry)

	// JSON API
	s.router.GET("/healthz", data.HandleHealth())
	api := s.router.Group("/api")
	{
		api.GET("/patients", data.HandlePatients())
		api.GET("/views/:name", data.HandleView())
		api.GET("/selection", data.HandleSelection())
		api.POST("/selection/toggle", data.HandleToggle())
		api.POST("/selection/reset", data.HandleReset())
	}
}

// Handler exposes the router for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting DEXA dashboard on http://%s", addr)
	return s.router.Run(addr)
}
