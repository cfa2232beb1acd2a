package dto

// ErrorResponse is the uniform error body for all FX endpoints. Code carries
// the provider error class when the failure came from an upstream provider.
type ErrorResponse struct {
	Success  bool           `json:"success"`
	Error    string         `json:"error"`
	Code     string         `json:"code,omitempty"`
	Provider string         `json:"provider,omitempty"`
	Tier     string         `json:"tier,omitempty"`
	Existing []RateResponse `json:"existing,omitempty"`
}
