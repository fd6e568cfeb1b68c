// Package wallet implements wallet provisioning on top of the keystore and
// the in-memory active wallet registry.
package wallet

import (
	"errors"
	"fmt"

	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/keystore"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/model"
)

// ErrLabelAndPasswordRequired is returned when a wallet is saved without both.
var ErrLabelAndPasswordRequired = errors.New("label and password are required")

// Service groups wallet operations that touch both the keystore and the registry.
type Service struct {
	keystore *keystore.Keystore
	registry *Registry
}

// NewService creates a wallet service.
func NewService(ks *keystore.Keystore, registry *Registry) *Service {
	return &Service{keystore: ks, registry: registry}
}

// Registry returns the active wallet registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Keystore returns the underlying keystore.
func (s *Service) Keystore() *keystore.Keystore {
	return s.keystore
}

// New generates a keypair for chain, saves it encrypted under password and
// makes it active.
func (s *Service) New(caip2, label string, password []byte) (*model.NewWalletResponse, error) {
	if label == "" || len(password) == 0 {
		return nil, ErrLabelAndPasswordRequired
	}

	family := chain.FamilyOf(caip2)
	privateKey, address, err := chain.GenerateKey(family)
	if err != nil {
		return nil, err
	}

	id, err := s.Save(caip2, label, privateKey, address, password)
	if err != nil {
		return nil, err
	}
	s.registry.Set(family, model.ActiveWallet{PrivateKey: privateKey, Address: address})

	return &model.NewWalletResponse{Address: address, Chain: caip2, WalletID: id}, nil
}

// Import makes privateKey the active wallet for chain. It is also saved when
// both label and password are given.
func (s *Service) Import(caip2, privateKey, label string, password []byte) (*model.ImportWalletResponse, error) {
	family := chain.FamilyOf(caip2)
	address, err := chain.DeriveAddress(family, privateKey)
	if err != nil {
		return nil, err
	}

	resp := &model.ImportWalletResponse{Address: address}
	if label != "" && len(password) > 0 {
		id, err := s.Save(caip2, label, privateKey, address, password)
		if err != nil {
			return nil, err
		}
		resp.Saved = true
		resp.WalletID = id
	}

	s.registry.Set(family, model.ActiveWallet{PrivateKey: privateKey, Address: address})
	return resp, nil
}

// Save encrypts and stores a key whose address is already known. It does not
// touch the registry.
func (s *Service) Save(caip2, label, privateKey, address string, password []byte) (string, error) {
	if label == "" || len(password) == 0 {
		return "", ErrLabelAndPasswordRequired
	}

	entry, err := s.keystore.NewEntry(label, caip2, address, privateKey, password)
	if err != nil {
		return "", err
	}
	if err := s.keystore.Add(entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// List returns stored wallets without secrets, optionally filtered by chain.
func (s *Service) List(caip2 string) []model.WalletSummary {
	entries := s.keystore.List(caip2)
	out := make([]model.WalletSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Summary())
	}
	return out
}

// Unlock decrypts a stored wallet and makes it active for its family.
// Errors are keystore.ErrWalletNotFound or crypto.ErrWrongPassword.
func (s *Service) Unlock(id string, password []byte) (*model.WalletSummary, error) {
	entry, err := s.keystore.Get(id)
	if err != nil {
		return nil, err
	}

	privateKey, err := keystore.Decrypt(entry, password)
	if err != nil {
		log.Keystore.Warn().Str("id", id).Msg("unlock failed")
		return nil, err
	}

	s.registry.Set(chain.FamilyOf(entry.Chain), model.ActiveWallet{PrivateKey: privateKey, Address: entry.Address})
	log.Keystore.Info().Str("id", id).Str("chain", entry.Chain).Msg("wallet unlocked")

	summary := entry.Summary()
	return &summary, nil
}

// Remove deletes a stored wallet. The active wallet is left alone.
func (s *Service) Remove(id string) error {
	removed, err := s.keystore.Remove(id)
	if err != nil {
		return err
	}
	if !removed {
		return keystore.ErrWalletNotFound
	}
	return nil
}

// ChangePassword re-encrypts a stored wallet under a new password. The entry
// keeps its id, label and address; salt and nonce are fresh.
func (s *Service) ChangePassword(id string, oldPassword, newPassword []byte) error {
	if len(newPassword) == 0 {
		return ErrLabelAndPasswordRequired
	}

	entry, err := s.keystore.Get(id)
	if err != nil {
		return err
	}

	privateKey, err := keystore.Decrypt(entry, oldPassword)
	if err != nil {
		return err
	}

	fresh, err := s.keystore.NewEntry(entry.Label, entry.Chain, entry.Address, privateKey, newPassword)
	if err != nil {
		return err
	}
	fresh.ID = entry.ID
	fresh.CreatedAt = entry.CreatedAt

	if err := s.keystore.Replace(fresh); err != nil {
		return fmt.Errorf("failed to replace wallet %s: %w", id, err)
	}
	log.Keystore.Info().Str("id", id).Msg("wallet password changed")
	return nil
}
