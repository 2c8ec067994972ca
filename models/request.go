package models

// ImportRequest is the payload for POST /api/v1/import.
type ImportRequest struct {
	// URL is the external recipe page to import. Required.
	URL string `json:"url" binding:"required,url"`

	// MaxAge enables the response cache: a cached result younger than
	// MaxAge milliseconds is returned without refetching the page.
	// 0 (default) bypasses the cache entirely.
	MaxAge int `json:"max_age,omitempty" binding:"omitempty,min=0"`
}
