package session

import (
	"encoding/json"
	"time"

	"github.com/AlexZinkM/local-signer/internal/model"
)

// TxStore holds unsigned transactions waiting for a browser signer.
type TxStore struct {
	store *Store[model.TxSession]
}

// NewTxStore creates an empty signing session store.
func NewTxStore(now func() time.Time) *TxStore {
	return &TxStore{store: NewStore[model.TxSession](TTL, now)}
}

// Create stores a new signing session for req.
func (s *TxStore) Create(req model.CreateSessionRequest) model.TxSession {
	payload := req.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("null")
	}
	return s.store.Put(func(token string, createdAt, expiresAt time.Time) model.TxSession {
		return model.TxSession{
			Token:     token,
			ChainType: req.ChainType,
			Payload:   payload,
			TokenID:   req.TokenID,
			TokenMeta: req.TokenMeta,
			RPCURL:    req.RPCURL,
			CreatedAt: createdAt.UnixMilli(),
			ExpiresAt: expiresAt.UnixMilli(),
		}
	})
}

// Get returns a live session.
func (s *TxStore) Get(token string) (model.TxSession, bool) {
	return s.store.Get(token)
}

// Lookup returns a live session or ErrNotFound / ErrExpired.
func (s *TxStore) Lookup(token string) (model.TxSession, error) {
	return s.store.Lookup(token)
}

// SetResult records the signing outcome. Last write wins.
func (s *TxStore) SetResult(token string, result model.TxResult) bool {
	return s.store.Update(token, func(sess *model.TxSession) {
		sess.Result = &result
	})
}

// Sweep evicts expired sessions.
func (s *TxStore) Sweep() int {
	return s.store.Sweep()
}
