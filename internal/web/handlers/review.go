package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jezper/faver/internal/curator"
)

// ReviewHandler mutates per-event review and curation state.
type ReviewHandler struct {
	curator *curator.Curator
}

// NewReviewHandler creates a review handler.
func NewReviewHandler(c *curator.Curator) *ReviewHandler {
	return &ReviewHandler{curator: c}
}

// MarkReviewed records that the event has been shown to the user. Marking
// twice is a no-op, so retried requests are harmless.
func (h *ReviewHandler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "event id is required")
		return
	}
	h.curator.MarkReviewed(id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type curatedRequest struct {
	Curated bool `json:"curated"`
}

// SetCurated toggles the favorite flag on the backend. 202 means the write
// landed and the next rebuild will reflect it; a failed write is a 502 so
// the UI does not present a lost toggle as applied.
func (h *ReviewHandler) SetCurated(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "event id is required")
		return
	}

	var req curatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.curator.SetCurated(r.Context(), id, req.Curated); err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}
