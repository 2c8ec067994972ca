package models

// ImportResponse is the response for POST /api/v1/import.
type ImportResponse struct {
	// Success indicates whether a Recipe was extracted.
	Success bool `json:"success"`

	// Recipe is populated only when Success is true.
	Recipe *Recipe `json:"recipe,omitempty"`

	// FinalURL is the page URL after following all redirects.
	FinalURL string `json:"final_url,omitempty"`

	// Extractor names the strategy that produced the recipe
	// ("jsonld", "microdata", "siterules").
	Extractor string `json:"extractor,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// FetchMs is the time spent retrieving the page.
	FetchMs int64 `json:"fetch_ms"`

	// ExtractMs is the time spent in extraction and normalization.
	ExtractMs int64 `json:"extract_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // "healthy"
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
