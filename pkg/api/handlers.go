package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/paulmach/orb/geojson"
)

// Handlers serves a built isochrone feature collection.
type Handlers struct {
	fc    *geojson.FeatureCollection
	stats StatsResponse
}

// NewHandlers creates handlers over the given collection.
func NewHandlers(fc *geojson.FeatureCollection, stats StatsResponse) *Handlers {
	return &Handlers{fc: fc, stats: stats}
}

// HandleIsochrones handles GET /api/v1/isochrones. Optional query filters:
// mode (exact key) and max_minutes (inclusive upper bound).
func (h *Handlers) HandleIsochrones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mode := q.Get("mode")

	maxMinutes := -1
	if raw := q.Get("max_minutes"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "invalid_max_minutes", "max_minutes")
			return
		}
		maxMinutes = v
	}

	out := geojson.NewFeatureCollection()
	for _, f := range h.fc.Features {
		if mode != "" && featureMode(f) != mode {
			continue
		}
		if maxMinutes >= 0 && featureMinutes(f) > maxMinutes {
			continue
		}
		out.Append(f)
	}

	w.Header().Set("Content-Type", "application/geo+json")
	json.NewEncoder(w).Encode(out)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.stats)
}

// featureMode reads the mode property.
func featureMode(f *geojson.Feature) string {
	s, _ := f.Properties["mode"].(string)
	return s
}

// featureMinutes reads the minutes property, which is an int when built
// in-process and a float64 after a JSON round-trip.
func featureMinutes(f *geojson.Feature) int {
	switch v := f.Properties["minutes"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
