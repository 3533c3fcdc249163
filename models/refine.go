package models

// RefineRequest is the inbound payload for POST /api/refine. Prompt is
// a pointer so a missing or null prompt can be told apart from an empty
// string during validation.
type RefineRequest struct {
	Prompt *string `json:"prompt"`
	APIKey string  `json:"apiKey,omitempty"`
	Model  string  `json:"model,omitempty"`
}

// Suggestion is one refined alternative for a submitted prompt. Clarity
// is always within [1,10] after normalization.
type Suggestion struct {
	ID          string `json:"id"`
	Refined     string `json:"refined"`
	Clarity     int    `json:"clarity"`
	Explanation string `json:"explanation"`
}

// RefineResponse carries at most three suggestions. An empty list is a
// valid response.
type RefineResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ModelInfo describes a model exposed via /api/models.
type ModelInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}
