package ui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"dexadash/domain/core"
	"dexadash/internal"
	"dexadash/internal/errors"
	"dexadash/internal/selection"
	"dexadash/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App is the stateless JSON API. Unlike Server it keeps no sessions:
// the body-part selection travels in the query string.
type App struct {
	router    *chi.Mux
	assembler *view.Assembler
	logger    *internal.Logger
}

// NewApp creates the API application over an assembler
func NewApp(assembler *view.Assembler, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	app := &App{
		router:    chi.NewRouter(),
		assembler: assembler,
		logger:    logger.With("API"),
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api/patients", func(r chi.Router) {
		r.Get("/", a.handlePatients)
		r.Route("/{patient}", func(r chi.Router) {
			r.Use(a.requirePatient)
			r.Get("/overview", a.handleOverview)
			r.Get("/body-parts", a.handleBodyParts)
			r.Get("/composition", a.handleComposition)
			r.Get("/symmetry", a.handleSymmetry)
		})
	})
}

// Handler exposes the router for tests and custom listeners
func (a *App) Handler() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	a.logger.Info("Starting DEXA JSON API on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	a.writeJSON(w, errors.HTTPStatus(err), map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func patientParam(r *http.Request) string {
	raw := chi.URLParam(r, "patient")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// requirePatient answers 404 for patients absent from both tables
func (a *App) requirePatient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if patient := patientParam(r); !a.assembler.HasPatient(patient) {
			a.writeError(w, fmt.Errorf("%w %q", core.ErrPatientNotFound, patient))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"patients": len(a.assembler.Patients()),
	})
}

func (a *App) handlePatients(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"patients": a.assembler.Patients(),
		"default":  a.assembler.DefaultPatient(),
	})
}

func (a *App) handleOverview(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.assembler.Overview(patientParam(r)))
}

// handleBodyParts reads the selection from repeated part parameters;
// none selects Total
func (a *App) handleBodyParts(w http.ResponseWriter, r *http.Request) {
	state, err := selection.FromParts(r.URL.Query()["part"])
	if err != nil {
		a.writeError(w, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	a.writeJSON(w, http.StatusOK, a.assembler.BodyParts(patientParam(r), state.Selected()))
}

func (a *App) handleComposition(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.assembler.Composition(patientParam(r)))
}

func (a *App) handleSymmetry(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, a.assembler.Symmetry(patientParam(r)))
}
