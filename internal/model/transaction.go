package model

import (
	"encoding/json"
	"fmt"
)

// ChainType discriminates the two supported chain families.
type ChainType string

const (
	ChainTypeEVM ChainType = "evm"
	ChainTypeSVM ChainType = "svm"
)

// Valid reports whether t is one of the known chain families.
func (t ChainType) Valid() bool {
	return t == ChainTypeEVM || t == ChainTypeSVM
}

// TokenMeta is display information about the token being launched.
type TokenMeta struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// TxStatus is the terminal status reported by the signer.
type TxStatus string

const (
	TxStatusSuccess TxStatus = "success"
	TxStatusFailed  TxStatus = "failed"
)

// TxResult is the outcome recorded against a signing session by the browser.
type TxResult struct {
	Status    TxStatus `json:"status"`
	TxHash    string   `json:"tx_hash,omitempty"`
	Signature string   `json:"signature,omitempty"`
	Error     string   `json:"error,omitempty"`
	// ImageData is a base64 replacement image set when the user changes the token image in the web signer.
	ImageData string `json:"image_data,omitempty"`
}

// Validate validates a TxResult body.
func (r *TxResult) Validate() error {
	if r.Status != TxStatusSuccess && r.Status != TxStatusFailed {
		return fmt.Errorf("status must be success or failed")
	}
	return nil
}

// TxSession is an ephemeral unsigned transaction waiting for a signer.
// CreatedAt and ExpiresAt are epoch milliseconds.
type TxSession struct {
	Token     string          `json:"token"`
	ChainType ChainType       `json:"chain_type"`
	Payload   json.RawMessage `json:"payload"`
	TokenID   string          `json:"token_id"`
	TokenMeta *TokenMeta      `json:"token_meta,omitempty"`
	RPCURL    string          `json:"rpc_url,omitempty"`
	CreatedAt int64           `json:"created_at"`
	ExpiresAt int64           `json:"expires_at"`
	Result    *TxResult       `json:"result,omitempty"`
}

// CreateSessionRequest represents request for POST /sessions
type CreateSessionRequest struct {
	ChainType ChainType       `json:"chain_type"`
	Payload   json.RawMessage `json:"payload"`
	TokenID   string          `json:"token_id"`
	TokenMeta *TokenMeta      `json:"token_meta,omitempty"`
	RPCURL    string          `json:"rpc_url,omitempty"`
}

// Validate validates CreateSessionRequest.
func (r *CreateSessionRequest) Validate() error {
	if !r.ChainType.Valid() {
		return fmt.Errorf("chain_type must be evm or svm")
	}
	return nil
}

// CreateSessionResponse represents response for POST /sessions
type CreateSessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}
