package model

// KDFParams are the scrypt cost factors stored with every wallet entry.
type KDFParams struct {
	N     int `json:"N"`
	R     int `json:"r"`
	P     int `json:"p"`
	DKLen int `json:"dkLen"`
}

// EncryptedKey is the encrypted-at-rest part of a wallet entry.
// Binary fields are base64 encoded.
type EncryptedKey struct {
	KDF          string    `json:"kdf"`
	KDFParams    KDFParams `json:"kdfParams"`
	Salt         string    `json:"salt"`
	IV           string    `json:"iv"`
	EncryptedKey string    `json:"encryptedKey"` // AES-256-GCM ciphertext + 16-byte tag
}

// WalletEntry is a durable, encrypted wallet record in the keystore file.
type WalletEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// Chain is a CAIP-2 chain ID, e.g. "eip155:8453"
	Chain string `json:"chain"`
	// Address is plaintext and safe to read without the password
	Address string `json:"address"`
	EncryptedKey
	CreatedAt int64 `json:"createdAt"` // epoch milliseconds
}

// KeystoreFile represents the wallets.json document.
type KeystoreFile struct {
	Version int           `json:"version"`
	Wallets []WalletEntry `json:"wallets"`
}

// WalletSummary is a wallet entry without any secret material.
type WalletSummary struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Chain     string `json:"chain"`
	Address   string `json:"address"`
	CreatedAt int64  `json:"created_at"`
}

// Summary strips the encrypted fields from the entry.
func (e WalletEntry) Summary() WalletSummary {
	return WalletSummary{
		ID:        e.ID,
		Label:     e.Label,
		Chain:     e.Chain,
		Address:   e.Address,
		CreatedAt: e.CreatedAt,
	}
}

// ActiveWallet is a decrypted key held in memory for the process lifetime.
type ActiveWallet struct {
	PrivateKey string
	Address    string
}

// WalletAction is the kind of wallet provisioning flow.
type WalletAction string

const (
	WalletActionUnlock  WalletAction = "unlock"
	WalletActionProvide WalletAction = "provide"
	WalletActionNew     WalletAction = "new"
)

// Valid reports whether a is a known provisioning action.
func (a WalletAction) Valid() bool {
	return a == WalletActionUnlock || a == WalletActionProvide || a == WalletActionNew
}

// WalletSessionResult is recorded once the browser flow completes.
type WalletSessionResult struct {
	Status  TxStatus `json:"status"`
	Address string   `json:"address,omitempty"`
}

// WalletSession is an ephemeral wallet provisioning flow.
// PrivateKeyTemp only exists for the "new" action and is cleared when a result is recorded.
type WalletSession struct {
	Token          string               `json:"token"`
	Action         WalletAction         `json:"action"`
	Chain          string               `json:"chain"`
	WalletID       string               `json:"walletId,omitempty"`
	Address        string               `json:"address,omitempty"`
	PrivateKeyTemp string               `json:"privateKeyTemp,omitempty"`
	CreatedAt      int64                `json:"created_at"`
	ExpiresAt      int64                `json:"expires_at"`
	Result         *WalletSessionResult `json:"result,omitempty"`
}

// WalletSessionView represents response for GET /wallet/sessions/{token}
type WalletSessionView struct {
	Token          string       `json:"token"`
	Action         WalletAction `json:"action"`
	Chain          string       `json:"chain"`
	Address        string       `json:"address,omitempty"`
	PrivateKeyTemp string       `json:"privateKeyTemp,omitempty"`
	Label          string       `json:"label,omitempty"`
}
