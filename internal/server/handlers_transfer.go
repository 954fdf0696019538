package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/gymtrack/internal/export"
	"github.com/meltforce/gymtrack/internal/models"
)

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.DumpAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=gymtrack-backup-%s.json", models.DateOf(snap.Meta.ExportedAt)))
	if err := export.WriteJSON(w, snap); err != nil {
		s.log.Error("export write failed", "error", err)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := export.Filter{
		ExerciseID: q.Get("exercise"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=gymtrack-sets.csv")
	if err := export.WriteCSV(r.Context(), s.store, w, filter); err != nil {
		s.log.Error("csv export failed", "error", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snap models.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.store.ImportMerge(r.Context(), &snap); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"imported": true})
}

// --- Settings ---

func (s *Server) handleAllSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.AllSettings(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	value, err := s.store.GetSetting(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if value == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "setting not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"value": value})
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var value json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.store.SetSetting(r.Context(), chi.URLParam(r, "key"), value); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"value": value})
}
