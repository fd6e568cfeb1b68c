package session

import (
	"time"

	"github.com/AlexZinkM/local-signer/internal/model"
)

// WalletInput describes a wallet provisioning flow to open.
type WalletInput struct {
	Action         model.WalletAction
	Chain          string
	WalletID       string // unlock
	Address        string // new
	PrivateKeyTemp string // new
}

// WalletStore holds wallet provisioning flows.
type WalletStore struct {
	store *Store[model.WalletSession]
}

// NewWalletStore creates an empty provisioning session store.
func NewWalletStore(now func() time.Time) *WalletStore {
	return &WalletStore{store: NewStore[model.WalletSession](TTL, now)}
}

// Create opens a provisioning flow.
func (s *WalletStore) Create(in WalletInput) model.WalletSession {
	return s.store.Put(func(token string, createdAt, expiresAt time.Time) model.WalletSession {
		return model.WalletSession{
			Token:          token,
			Action:         in.Action,
			Chain:          in.Chain,
			WalletID:       in.WalletID,
			Address:        in.Address,
			PrivateKeyTemp: in.PrivateKeyTemp,
			CreatedAt:      createdAt.UnixMilli(),
			ExpiresAt:      expiresAt.UnixMilli(),
		}
	})
}

// Get returns a live flow.
func (s *WalletStore) Get(token string) (model.WalletSession, bool) {
	return s.store.Get(token)
}

// SetResult records the outcome and drops the temporary private key.
func (s *WalletStore) SetResult(token string, result model.WalletSessionResult) bool {
	return s.store.Update(token, func(sess *model.WalletSession) {
		sess.PrivateKeyTemp = ""
		sess.Result = &result
	})
}

// Sweep evicts expired flows.
func (s *WalletStore) Sweep() int {
	return s.store.Sweep()
}
