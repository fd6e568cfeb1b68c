package model

// EVMPayload is the unsigned EVM transaction returned by the launch API.
type EVMPayload struct {
	To       string `json:"to"`       // CAIP-10 target, e.g. "eip155:8453:0x..."
	Calldata string `json:"calldata"` // hex, with or without 0x
	Value    string `json:"value"`    // wei, decimal string
	GasLimit uint64 `json:"gas_limit"`
}

// SVMAccount is one account meta of a Solana instruction.
type SVMAccount struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// SVMInstruction is one Solana instruction; Data is base64.
type SVMInstruction struct {
	ProgramID string       `json:"program_id"`
	Accounts  []SVMAccount `json:"accounts"`
	Data      string       `json:"data"`
}

// SVMPayload is the unsigned Solana transaction returned by the launch API.
type SVMPayload struct {
	Ixs         []SVMInstruction `json:"ixs"`
	LookupTable string           `json:"lookup_table,omitempty"`
	MintAddress string           `json:"mint_address"`
}

// EVMSubmitResult is the receipt summary of a submitted EVM transaction.
type EVMSubmitResult struct {
	TxHash      string `json:"tx_hash"`
	BlockNumber string `json:"block_number"`
	Status      string `json:"status"` // "success" or "reverted"
}

// SVMSubmitResult is the confirmation summary of a submitted Solana transaction.
type SVMSubmitResult struct {
	Signature          string `json:"signature"`
	Slot               uint64 `json:"slot"`
	ConfirmationStatus string `json:"confirmation_status"`
}

// WebSignerResponse is returned when a browser signing session is opened.
type WebSignerResponse struct {
	URL          string `json:"url"`
	SessionToken string `json:"session_token"`
	APIPort      int    `json:"api_port"`
	ExpiresAt    int64  `json:"expires_at"`
}
