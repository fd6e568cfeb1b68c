package resolver

import "github.com/AlexZinkM/local-signer/internal/model"

// Resolution is the outcome of resolving a signing key. It is one of Ready,
// BrowserRequired, InsufficientFunds, Declined or Error.
type Resolution interface {
	resolution()
}

// Ready carries a key that can sign now.
type Ready struct {
	PrivateKey string
	Address    string
}

// NewWallet describes a freshly generated wallet shown in the browser.
type NewWallet struct {
	Address string
	Chain   string // display name
	Symbol  string
}

// BrowserRequired means the user has to finish a flow at URL before retrying.
type BrowserRequired struct {
	Action    model.WalletAction
	Token     string // wallet session token
	URL       string
	NewWallet *NewWallet
}

// InsufficientFunds means a key is available but cannot pay the fee.
// Amounts are formatted in whole units, "?" when unknown.
type InsufficientFunds struct {
	Address  string
	Balance  string
	Required string
	Symbol   string
	Chain    string // display name
}

// Declined means no wallet was chosen.
type Declined struct{}

// Error is a resolution failure with a message meant for the caller.
type Error struct {
	Message string
}

func (Ready) resolution()             {}
func (BrowserRequired) resolution()   {}
func (InsufficientFunds) resolution() {}
func (Declined) resolution()          {}
func (Error) resolution()             {}
