package dto

// WelcomeResponse tells a client where the API's resources live.
type WelcomeResponse struct {
	Name      string            `json:"name"`
	Message   string            `json:"message"`
	Resources map[string]string `json:"resources"`
}
