// Package server exposes the data layer to the local UI as a JSON HTTP API.
// The UI never touches collections directly; these routes are its entire
// surface.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/gymtrack/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  *storage.Store
	log    *slog.Logger
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store *storage.Store, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/exercises", s.handleListExercises)
		r.Post("/exercises", s.handleCreateExercise)
		r.Get("/exercises/muscle-groups", s.handleListMuscleGroups)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Put("/exercises/{id}", s.handleUpdateExercise)
		r.Delete("/exercises/{id}", s.handleDeleteExercise)
		r.Get("/exercises/{id}/last-set", s.handleLastSet)

		r.Get("/templates", s.handleListTemplates)
		r.Post("/templates", s.handleCreateTemplate)
		r.Get("/templates/{id}", s.handleGetTemplate)
		r.Put("/templates/{id}", s.handleUpdateTemplate)
		r.Delete("/templates/{id}", s.handleDeleteTemplate)
		r.Post("/templates/{id}/duplicate", s.handleDuplicateTemplate)

		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Patch("/sessions/{id}", s.handleUpdateSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Get("/sessions/{id}/sets", s.handleListSessionSets)

		r.Post("/sets", s.handleAddSet)
		r.Delete("/sets/{id}", s.handleDeleteSet)

		r.Get("/analytics/best-weight", s.handleBestWeight)
		r.Get("/analytics/volume", s.handleVolume)
		r.Get("/analytics/est1rm", s.handleEst1RM)

		r.Get("/settings", s.handleAllSettings)
		r.Get("/settings/{key}", s.handleGetSetting)
		r.Put("/settings/{key}", s.handleSetSetting)

		r.Get("/export", s.handleExportJSON)
		r.Get("/export/csv", s.handleExportCSV)
		r.Post("/import", s.handleImport)
	})
}
