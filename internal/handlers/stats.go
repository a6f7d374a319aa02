package handlers

import (
	"net/http"

	"contentadmin/internal/httputil"
)

// Stats serves dashboard counts.
type Stats struct {
	svc StatsService
}

// NewStats creates the stats handler.
func NewStats(svc StatsService) *Stats {
	return &Stats{svc: svc}
}

// Get returns content, translation and version counts with breakdowns.
func (h *Stats) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats(r.Context())
	if err != nil {
		httputil.RespondErr(w, r, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, st)
}
