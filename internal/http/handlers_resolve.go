package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dsjohal14/gradelight/internal/scope/search"
)

// maxFragments bounds one resolve request
const maxFragments = 500

// HandleResolve locates quoted fragments in the posted text
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn().Err(err).Msg("invalid resolve request")
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}

	if req.Text == nil {
		writeError(w, http.StatusBadRequest, "text is required", "MISSING_TEXT")
		return
	}
	if len(req.Fragments) > maxFragments {
		writeError(w, http.StatusBadRequest, "too many fragments", "TOO_MANY_FRAGMENTS")
		return
	}

	resolver := h.resolver
	if req.Threshold != nil || req.Tolerance != nil {
		opts := resolver.Options()
		if req.Threshold != nil {
			opts.Threshold = *req.Threshold
		}
		if req.Tolerance != nil {
			opts.Tolerance = *req.Tolerance
		}
		var err error
		if resolver, err = search.NewResolver(opts); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_OPTIONS")
			return
		}
	}

	results, err := resolver.ResolveBatch(search.NewDocument(*req.Text), req.Fragments)
	if err != nil {
		h.logger.Error().Err(err).Msg("resolve failed")
		writeError(w, http.StatusInternalServerError, "resolve failed", "RESOLVE_ERROR")
		return
	}

	unresolved := 0
	for _, res := range results {
		if !res.Resolved() {
			unresolved++
		}
	}

	h.logger.Info().
		Int("fragments", len(results)).
		Int("unresolved", unresolved).
		Msg("fragments resolved")

	writeJSON(w, http.StatusOK, ResolveResponse{
		Results:    results,
		Count:      len(results),
		Unresolved: unresolved,
	})
}
