package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/jezper/faver/internal/curator"
	"github.com/jezper/faver/internal/moments"
)

// PlaceLabeler resolves coordinates to a display label, empty when the
// lookup fails. Implemented by geocode.Cache; nil disables place labels.
type PlaceLabeler interface {
	PlaceLabel(ctx context.Context, lat, lng float64) string
}

// MomentsHandler serves the moment catalog.
type MomentsHandler struct {
	curator *curator.Curator
	places  PlaceLabeler
}

// NewMomentsHandler creates a moments handler.
func NewMomentsHandler(c *curator.Curator, places PlaceLabeler) *MomentsHandler {
	return &MomentsHandler{curator: c, places: places}
}

type eventResponse struct {
	ID        string     `json:"id"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Lat       float64    `json:"lat,omitempty"`
	Lng       float64    `json:"lng,omitempty"`
}

type momentResponse struct {
	ID            string          `json:"id"`
	Pending       []eventResponse `json:"pending"`
	TotalInWindow int             `json:"totalInWindow"`
	Anchor        *time.Time      `json:"anchor,omitempty"`
	Lat           float64         `json:"lat,omitempty"`
	Lng           float64         `json:"lng,omitempty"`
	Located       bool            `json:"located"`
	Place         string          `json:"place,omitempty"`
}

type monthResponse struct {
	Month   int              `json:"month"`
	Moments []momentResponse `json:"moments"`
}

type yearResponse struct {
	Year   int             `json:"year"`
	Months []monthResponse `json:"months"`
}

func (h *MomentsHandler) toMomentResponse(ctx context.Context, m moments.Moment) momentResponse {
	resp := momentResponse{
		ID:            m.ID,
		Pending:       make([]eventResponse, 0, len(m.Pending)),
		TotalInWindow: m.TotalInWindow,
		Anchor:        m.Anchor,
	}
	for _, ev := range m.Pending {
		er := eventResponse{ID: ev.ID, Timestamp: ev.Timestamp}
		if ev.HasLoc {
			er.Lat = ev.Lat
			er.Lng = ev.Lng
		}
		resp.Pending = append(resp.Pending, er)
	}
	if m.RepresentativeLocated != nil {
		resp.Located = true
		resp.Lat = m.RepresentativeLocated.Lat
		resp.Lng = m.RepresentativeLocated.Lng
		if h.places != nil {
			resp.Place = h.places.PlaceLabel(ctx, resp.Lat, resp.Lng)
		}
	}
	return resp
}

// Rebuild triggers a full clustering pass. No arguments: settings and the
// event source are read fresh.
func (h *MomentsHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	built, err := h.curator.Rebuild(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"moments": len(built)})
}

// List returns the grouped catalog. An optional min query parameter
// overrides the configured size filter for this read.
func (h *MomentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ms := h.curator.Moments()
	if raw := r.URL.Query().Get("min"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil || min < 1 {
			respondError(w, http.StatusBadRequest, "min must be a positive integer")
			return
		}
		ms = moments.FilterBySize(ms, min)
	}

	groups := moments.GroupByMonth(ms, time.Now())
	out := make([]yearResponse, 0, len(groups))
	for _, yg := range groups {
		yr := yearResponse{Year: yg.Year}
		for _, mg := range yg.Months {
			mr := monthResponse{Month: int(mg.Month)}
			for _, m := range mg.Moments {
				mr.Moments = append(mr.Moments, h.toMomentResponse(r.Context(), m))
			}
			yr.Months = append(yr.Months, mr)
		}
		out = append(out, yr)
	}
	respondJSON(w, http.StatusOK, out)
}

// Suggested returns the "most worth reviewing right now" shortlist.
func (h *MomentsHandler) Suggested(w http.ResponseWriter, r *http.Request) {
	suggested := h.curator.Suggested()
	out := make([]momentResponse, 0, len(suggested))
	for _, m := range suggested {
		out = append(out, h.toMomentResponse(r.Context(), m))
	}
	respondJSON(w, http.StatusOK, out)
}
