package handlers

import (
	"net/http"
	"strconv"

	"github.com/jezper/faver/internal/curator"
	"github.com/jezper/faver/internal/mapgrid"
)

// Pin cell size defaults to roughly city scale.
const defaultCellDegrees = 0.1

// MapHandler serves map pin bins over the latest event snapshot.
type MapHandler struct {
	curator *curator.Curator
}

// NewMapHandler creates a map handler.
func NewMapHandler(c *curator.Curator) *MapHandler {
	return &MapHandler{curator: c}
}

type pinResponse struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	Count            int     `json:"count"`
	RepresentativeID string  `json:"representativeId"`
}

// Pins bins the located events of the latest snapshot into a uniform grid.
// The cell query parameter sets the cell size in degrees.
func (h *MapHandler) Pins(w http.ResponseWriter, r *http.Request) {
	cell := defaultCellDegrees
	if raw := r.URL.Query().Get("cell"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "cell must be a positive number of degrees")
			return
		}
		cell = parsed
	}

	pins := mapgrid.Bin(h.curator.Events(), cell)
	out := make([]pinResponse, 0, len(pins))
	for _, p := range pins {
		out = append(out, pinResponse{
			Lat:              p.Lat,
			Lng:              p.Lng,
			Count:            p.Count,
			RepresentativeID: p.RepresentativeID,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
