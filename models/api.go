package models

// FetchRequest is the payload for POST /api/v1/fetch.
type FetchRequest struct {
	// Site selects the adapter. Required.
	Site string `json:"site" binding:"required"`

	// URL is the student's profile page on Site. Required.
	URL string `json:"url" binding:"required,url"`

	// MaxAge allows a cached result younger than this many milliseconds.
	// Default: 0 (always fetch).
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}

// FetchResponse is the response for POST /api/v1/fetch.
type FetchResponse struct {
	Success bool   `json:"success"`
	Site    Site   `json:"site"`
	URL     string `json:"url"`

	// Count is set for counting sites.
	Count *int `json:"count,omitempty"`

	// Questions is set for Codolio.
	Questions *QuestionList `json:"questions,omitempty"`

	// CacheStatus is "hit", "miss", or empty when caching was not requested.
	CacheStatus string `json:"cache_status,omitempty"`

	TotalMs int64 `json:"total_ms"`

	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorResponse wraps an error for endpoints without a richer body.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Store   string `json:"store"`
	Running bool   `json:"running"`
	Version string `json:"version"`
}
