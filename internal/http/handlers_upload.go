package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dsjohal14/gradelight/internal/grading"
	"github.com/dsjohal14/gradelight/internal/scope/db"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

var errNotText = errors.New("only UTF-8 text uploads are supported")

// readUpload returns the file name and content of a multipart "file" field or of
// a JSON body read by pick
func readUpload(w http.ResponseWriter, r *http.Request, pick func(dec *json.Decoder) (string, string, error)) (string, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return pick(json.NewDecoder(r.Body))
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	if !utf8.Valid(data) {
		return "", "", errNotText
	}
	return header.Filename, string(data), nil
}

// HandleCreateEssay stores an uploaded essay
func (h *Handler) HandleCreateEssay(w http.ResponseWriter, r *http.Request) {
	filename, content, err := readUpload(w, r, func(dec *json.Decoder) (string, string, error) {
		var req EssayRequest
		err := dec.Decode(&req)
		return req.Filename, req.Content, err
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("invalid essay upload")
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_UPLOAD")
		return
	}

	if strings.TrimSpace(content) == "" {
		writeError(w, http.StatusBadRequest, "content is required", "MISSING_CONTENT")
		return
	}
	if filename == "" {
		filename = "essay.txt"
	}

	essay := db.Essay{
		ID:        uuid.NewString(),
		Filename:  filename,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := h.store.PutEssay(r.Context(), essay); err != nil {
		h.logger.Error().Err(err).Str("essay_id", essay.ID).Msg("failed to store essay")
		writeError(w, http.StatusInternalServerError, "failed to store essay", "STORE_ERROR")
		return
	}

	h.logger.Info().
		Str("essay_id", essay.ID).
		Str("filename", essay.Filename).
		Int("length", utf8.RuneCountInString(essay.Content)).
		Msg("essay stored")

	writeJSON(w, http.StatusOK, essay)
}

// HandleListEssays lists stored essays
func (h *Handler) HandleListEssays(w http.ResponseWriter, r *http.Request) {
	essays, err := h.store.ListEssays(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list essays")
		writeError(w, http.StatusInternalServerError, "failed to list essays", "STORE_ERROR")
		return
	}
	if essays == nil {
		essays = []db.Essay{}
	}

	writeJSON(w, http.StatusOK, EssayListResponse{Essays: essays, Count: len(essays)})
}

// HandleGetEssay returns one essay
func (h *Handler) HandleGetEssay(w http.ResponseWriter, r *http.Request) {
	essay, err := h.store.GetEssay(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "essay")
		return
	}
	writeJSON(w, http.StatusOK, essay)
}

// HandleCreateRubric stores an uploaded rubric with its parsed criteria
func (h *Handler) HandleCreateRubric(w http.ResponseWriter, r *http.Request) {
	name, content, err := readUpload(w, r, func(dec *json.Decoder) (string, string, error) {
		var req RubricRequest
		err := dec.Decode(&req)
		return req.Name, req.Content, err
	})
	if err != nil {
		h.logger.Warn().Err(err).Msg("invalid rubric upload")
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_UPLOAD")
		return
	}

	criteria, err := grading.ParseRubric(content)
	if err != nil {
		writeError(w, http.StatusBadRequest, "rubric has no criteria", "EMPTY_RUBRIC")
		return
	}
	if name == "" {
		name = "rubric"
	}

	rubric := db.Rubric{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		Criteria:  criteria,
		CreatedAt: time.Now(),
	}
	if err := h.store.PutRubric(r.Context(), rubric); err != nil {
		h.logger.Error().Err(err).Str("rubric_id", rubric.ID).Msg("failed to store rubric")
		writeError(w, http.StatusInternalServerError, "failed to store rubric", "STORE_ERROR")
		return
	}

	h.logger.Info().
		Str("rubric_id", rubric.ID).
		Int("criteria", len(criteria)).
		Msg("rubric stored")

	writeJSON(w, http.StatusOK, rubric)
}

// HandleGetRubric returns one rubric
func (h *Handler) HandleGetRubric(w http.ResponseWriter, r *http.Request) {
	rubric, err := h.store.GetRubric(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.storeError(w, err, "rubric")
		return
	}
	writeJSON(w, http.StatusOK, rubric)
}

// storeError maps a lookup failure to 404 or 500
func (h *Handler) storeError(w http.ResponseWriter, err error, kind string) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, kind+" not found", "NOT_FOUND")
		return
	}
	h.logger.Error().Err(err).Str("kind", kind).Msg("lookup failed")
	writeError(w, http.StatusInternalServerError, "failed to load "+kind, "STORE_ERROR")
}
