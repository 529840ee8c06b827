package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/raido/internal/models"
)

// SearchRequest is the request body for POST /api/search. Field names
// follow the original tool contract.
type SearchRequest struct {
	FolderPath   string `json:"folder_path"`
	SearchPrompt string `json:"search_prompt"`
	MaxResults   int    `json:"max_results"`
}

// Validate checks the request. A MaxResults of zero means "use the
// engine default".
func (r SearchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FolderPath, validation.Required),
		validation.Field(&r.SearchPrompt, validation.Required),
		validation.Field(&r.MaxResults, validation.Min(0), validation.Max(100)),
	)
}

// SearchResponse wraps ranked search results.
type SearchResponse struct {
	Results []models.Result `json:"results"`
	Total   int             `json:"total"`
}
