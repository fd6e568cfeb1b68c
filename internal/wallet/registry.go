package wallet

import (
	"sync"

	"github.com/AlexZinkM/local-signer/internal/model"
)

// Registry holds at most one decrypted wallet per chain family for the
// lifetime of the process. Nothing is written to disk.
type Registry struct {
	mu      sync.RWMutex
	wallets map[model.ChainType]model.ActiveWallet
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{wallets: make(map[model.ChainType]model.ActiveWallet)}
}

// Get returns the active wallet for family.
func (r *Registry) Get(family model.ChainType) (model.ActiveWallet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[family]
	return w, ok
}

// Set makes w the active wallet for family, replacing any previous one.
func (r *Registry) Set(family model.ChainType, w model.ActiveWallet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets[family] = w
}
