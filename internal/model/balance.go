package model

// ProvideResponse represents response for POST /wallet/provide/{token}.
// Balance figures are advisory and omitted when the check was unavailable.
type ProvideResponse struct {
	OK                bool   `json:"ok"`
	Error             string `json:"error,omitempty"`
	InsufficientFunds bool   `json:"insufficient_funds"`
	Balance           string `json:"balance,omitempty"`
	Required          string `json:"required,omitempty"`
	Symbol            string `json:"symbol,omitempty"`
}
