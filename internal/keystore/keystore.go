// Package keystore persists encrypted wallet entries in a single versioned
// JSON document.
package keystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/AlexZinkM/local-signer/internal/crypto"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/model"

	"github.com/google/uuid"
)

// FileVersion is the current keystore document version.
const FileVersion = 1

// ErrWalletNotFound is returned when no entry has the requested id.
var ErrWalletNotFound = errors.New("wallet not found")

// Keystore is the encrypted wallet store backed by one file.
// Every mutation reads the whole file, applies the change and rewrites it
// atomically while holding mu, so concurrent writers never lose updates.
type Keystore struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New returns a keystore for the file at path. The file is not touched until
// the first read.
func New(path string) *Keystore {
	return &Keystore{path: path, now: time.Now}
}

// Path returns the keystore file location.
func (k *Keystore) Path() string {
	return k.path
}

// List returns all entries, or only those on chain when chain is not empty.
func (k *Keystore) List(chain string) []model.WalletEntry {
	k.mu.Lock()
	defer k.mu.Unlock()

	file := k.load()
	if chain == "" {
		return file.Wallets
	}

	out := make([]model.WalletEntry, 0, len(file.Wallets))
	for _, w := range file.Wallets {
		if w.Chain == chain {
			out = append(out, w)
		}
	}
	return out
}

// Get returns the entry with id.
func (k *Keystore) Get(id string) (model.WalletEntry, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, w := range k.load().Wallets {
		if w.ID == id {
			return w, nil
		}
	}
	return model.WalletEntry{}, ErrWalletNotFound
}

// Add appends entry and rewrites the file.
func (k *Keystore) Add(entry model.WalletEntry) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	file := k.load()
	file.Wallets = append(file.Wallets, entry)
	if err := k.save(file); err != nil {
		return err
	}

	log.Keystore.Info().Str("id", entry.ID).Str("chain", entry.Chain).Msg("wallet added")
	return nil
}

// Replace swaps the stored entry that has the same id for entry.
func (k *Keystore) Replace(entry model.WalletEntry) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	file := k.load()
	for i, w := range file.Wallets {
		if w.ID == entry.ID {
			file.Wallets[i] = entry
			return k.save(file)
		}
	}
	return ErrWalletNotFound
}

// Remove deletes the entry with id. It reports false when no entry matched,
// in which case the file is left untouched.
func (k *Keystore) Remove(id string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	file := k.load()
	kept := make([]model.WalletEntry, 0, len(file.Wallets))
	for _, w := range file.Wallets {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(file.Wallets) {
		return false, nil
	}

	file.Wallets = kept
	if err := k.save(file); err != nil {
		return false, err
	}

	log.Keystore.Info().Str("id", id).Msg("wallet removed")
	return true, nil
}

// NewEntry encrypts privateKey under password and builds a fresh entry.
// The entry is not stored.
func (k *Keystore) NewEntry(label, chain, address, privateKey string, password []byte) (model.WalletEntry, error) {
	enc, err := crypto.EncryptKey([]byte(privateKey), password)
	if err != nil {
		return model.WalletEntry{}, fmt.Errorf("failed to encrypt key: %w", err)
	}

	return model.WalletEntry{
		ID:           uuid.NewString(),
		Label:        label,
		Chain:        chain,
		Address:      address,
		EncryptedKey: *enc,
		CreatedAt:    k.now().UnixMilli(),
	}, nil
}

// Decrypt opens the entry's key. Any failure is crypto.ErrWrongPassword.
func Decrypt(entry model.WalletEntry, password []byte) (string, error) {
	plain, err := crypto.DecryptKey(&entry.EncryptedKey, password)
	if err != nil {
		return "", err
	}
	defer clear(plain)
	return string(plain), nil
}

// load reads the document. A missing, unreadable or corrupt file yields an
// empty keystore; corrupt content is copied aside first.
func (k *Keystore) load() model.KeystoreFile {
	empty := model.KeystoreFile{Version: FileVersion, Wallets: []model.WalletEntry{}}

	data, err := os.ReadFile(k.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Keystore.Warn().Err(err).Str("path", k.path).Msg("failed to read keystore, treating as empty")
		}
		return empty
	}

	var file model.KeystoreFile
	if err := json.Unmarshal(data, &file); err != nil {
		k.backup(data, err)
		return empty
	}
	if file.Wallets == nil {
		file.Wallets = []model.WalletEntry{}
	}
	return file
}

func (k *Keystore) backup(data []byte, cause error) {
	backupPath := fmt.Sprintf("%s.bak-%d", k.path, k.now().Unix())
	if err := os.WriteFile(backupPath, data, filePermissions); err != nil {
		log.Keystore.Error().Err(err).Str("path", k.path).Msg("keystore is corrupt and backup failed")
		return
	}
	log.Keystore.Warn().Err(cause).Str("backup", backupPath).Msg("keystore is corrupt, starting empty")
}

func (k *Keystore) save(file model.KeystoreFile) error {
	file.Version = FileVersion
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal keystore: %w", err)
	}
	if err := writeAtomic(k.path, data); err != nil {
		return fmt.Errorf("failed to write keystore: %w", err)
	}
	return nil
}
