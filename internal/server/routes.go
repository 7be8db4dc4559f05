package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/timetable-app/timetable/internal/extract"
	"github.com/timetable-app/timetable/internal/importer"
	"github.com/timetable-app/timetable/internal/store"
)

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/now", s.handleNow)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("PUT /api/sidebar", s.handleSidebar)

	mux.HandleFunc("POST /api/templates", s.handleTemplateCreate)
	mux.HandleFunc("DELETE /api/templates/current", s.handleTemplateDelete)
	mux.HandleFunc("PUT /api/templates/current", s.handleTemplateSelect)
	mux.HandleFunc("PATCH /api/templates/{id}", s.handleTemplateRename)
	mux.HandleFunc("GET /api/templates/{id}/export", s.handleTemplateExport)

	mux.HandleFunc("POST /api/courses", s.handleCourseAdd)
	mux.HandleFunc("PUT /api/courses/{id}", s.handleCourseUpdate)
	mux.HandleFunc("DELETE /api/courses/{id}", s.handleCourseDelete)
	mux.HandleFunc("POST /api/courses/{id}/move", s.handleCourseMove)

	mux.HandleFunc("POST /api/import", s.handleImportFile)
	mux.HandleFunc("POST /api/import/document", s.handleImportDocument)

	mux.HandleFunc("GET /api/settings/api-key", s.handleAPIKeyGet)
	mux.HandleFunc("PUT /api/settings/api-key", s.handleAPIKeySet)
	mux.HandleFunc("DELETE /api/settings/api-key", s.handleAPIKeyDelete)
}

// handleHealth returns basic server health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy to HTTP statuses. The error text is
// the user-facing message; the taxonomy class picks the status code.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, importer.ErrMalformedInput),
		errors.Is(err, importer.ErrInvalidField),
		errors.Is(err, store.ErrLastTemplate):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, extract.ErrUnsupportedMediaType):
		status = http.StatusUnsupportedMediaType
	case errors.Is(err, extract.ErrMissingCredential):
		status = http.StatusUnauthorized
	case errors.Is(err, extract.ErrExtractionFailure):
		status = http.StatusBadGateway
	case errors.Is(err, store.ErrPersistenceFailure):
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
