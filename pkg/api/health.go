package api

// HealthResponse represents the health verdict surfaced to monitoring
type HealthResponse struct {
	Status          string            `json:"status"` // healthy | degraded | unhealthy
	Recommendations []string          `json:"recommendations,omitempty"`
	Metrics         map[string]float64 `json:"metrics,omitempty"`
}
