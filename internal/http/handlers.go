package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dsjohal14/gradelight/internal/grading"
	"github.com/dsjohal14/gradelight/internal/scope/db"
	"github.com/dsjohal14/gradelight/internal/scope/search"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxUploadBytes caps essay and rubric request bodies
const maxUploadBytes = 10 << 20

// Handler contains HTTP handlers for the API
type Handler struct {
	store    db.Storage
	grader   *grading.Grader // nil when no model is configured
	resolver *search.Resolver
	logger   zerolog.Logger
}

// NewHandler creates a new HTTP handler. grader may be nil, in which case
// /grade answers 503.
func NewHandler(store db.Storage, grader *grading.Grader, resolver *search.Resolver, logger zerolog.Logger) *Handler {
	return &Handler{
		store:    store,
		grader:   grader,
		resolver: resolver,
		logger:   logger,
	}
}

// Mount registers the API routes on r
func (h *Handler) Mount(r chi.Router) {
	r.Get("/health", h.HandleHealth)

	r.Post("/essays", h.HandleCreateEssay)
	r.Get("/essays", h.HandleListEssays)
	r.Get("/essays/{id}", h.HandleGetEssay)

	r.Post("/rubrics", h.HandleCreateRubric)
	r.Get("/rubrics/{id}", h.HandleGetRubric)

	r.Post("/grade", h.HandleGrade)
	r.Get("/gradings/{id}", h.HandleGetGrading)

	r.Post("/resolve", h.HandleResolve)
}

// Helper functions used across all handlers

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
