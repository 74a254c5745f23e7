package api

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	NumFeatures int      `json:"num_features"`
	Modes       []string `json:"modes"`
	Center      string   `json:"center"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
