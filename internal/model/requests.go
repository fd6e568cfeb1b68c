package model

// UnlockRequest represents request for POST /wallet/unlock/{token}
type UnlockRequest struct {
	Password string `json:"password"`
}

// ProvideRequest represents request for POST /wallet/provide/{token}
type ProvideRequest struct {
	PrivateKey string `json:"private_key"`
	Save       bool   `json:"save,omitempty"`
	Label      string `json:"label,omitempty"`
	Password   string `json:"password,omitempty"`
}

// ConfirmNewRequest represents request for POST /wallet/new/{token}/confirm
type ConfirmNewRequest struct {
	Confirmed bool   `json:"confirmed"`
	Label     string `json:"label"`
	Password  string `json:"password"`
}

// OKResponse is the body of wallet flow responses.
type OKResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewWalletResponse is returned when a wallet is generated outside the browser.
type NewWalletResponse struct {
	Address  string `json:"address"`
	Chain    string `json:"chain"`
	WalletID string `json:"wallet_id"`
}

// ImportWalletResponse is returned when a raw key is imported.
type ImportWalletResponse struct {
	Address  string `json:"address"`
	Saved    bool   `json:"saved"`
	WalletID string `json:"wallet_id,omitempty"`
}
