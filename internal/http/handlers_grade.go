package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dsjohal14/gradelight/internal/grading"
	"github.com/dsjohal14/gradelight/internal/scope/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandleGrade grades a stored essay against a stored rubric and keeps the result
func (h *Handler) HandleGrade(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid grade request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if req.EssayID == "" || req.RubricID == "" {
		writeError(w, http.StatusBadRequest, "essay_id and rubric_id are required", "MISSING_ID")
		return
	}
	if h.grader == nil {
		writeError(w, http.StatusServiceUnavailable, "no model configured", "MODEL_UNAVAILABLE")
		return
	}

	essay, err := h.store.GetEssay(r.Context(), req.EssayID)
	if err != nil {
		h.storeError(w, err, "essay")
		return
	}
	rubric, err := h.store.GetRubric(r.Context(), req.RubricID)
	if err != nil {
		h.storeError(w, err, "rubric")
		return
	}

	report, err := h.grader.Grade(r.Context(), essay.Content, rubric.Criteria)
	if err != nil {
		h.logger.Error().Err(err).Str("essay_id", essay.ID).Str("rubric_id", rubric.ID).Msg("grading failed")
		switch {
		case errors.Is(err, grading.ErrEmptyRubric):
			writeError(w, http.StatusUnprocessableEntity, "rubric has no criteria", "EMPTY_RUBRIC")
		case errors.Is(err, grading.ErrBadResponse):
			writeError(w, http.StatusBadGateway, "model returned an unreadable response", "BAD_MODEL_RESPONSE")
		default:
			writeError(w, http.StatusBadGateway, "grading failed", "MODEL_ERROR")
		}
		return
	}

	g := db.Grading{
		ID:         uuid.NewString(),
		EssayID:    essay.ID,
		RubricID:   rubric.ID,
		Results:    report,
		TotalScore: report.TotalScore,
		CreatedAt:  time.Now(),
	}
	if err := h.store.PutGrading(r.Context(), g); err != nil {
		h.logger.Error().Err(err).Str("grading_id", g.ID).Msg("failed to store grading")
		writeError(w, http.StatusInternalServerError, "failed to store grading", "STORE_ERROR")
		return
	}

	h.logger.Info().
		Str("grading_id", g.ID).
		Str("essay_id", essay.ID).
		Float64("total_score", g.TotalScore).
		Msg("grading stored")

	writeJSON(w, http.StatusOK, g)
}

// HandleGetGrading returns one grading
func (h *Handler) HandleGetGrading(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.GetGrading(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "grading")
		return
	}
	writeJSON(w, http.StatusOK, g)
}
