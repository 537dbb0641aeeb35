package dto

// ErrorResponse is the body of every failed request. Code is stable across releases;
// Message may carry request-specific detail.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
