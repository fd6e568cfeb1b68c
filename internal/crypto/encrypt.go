package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/AlexZinkM/local-signer/internal/model"

	"golang.org/x/crypto/scrypt"
)

const (
	// scrypt parameters are pinned so every keystore entry stays decryptable
	// by any build. N=2^17 (~128MB RAM) matches existing wallets.json files.
	KDFName      = "scrypt"
	scryptN      = 1 << 17
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 32
	nonceLen     = 12
)

// DefaultKDFParams returns the pinned scrypt parameters.
func DefaultKDFParams() model.KDFParams {
	return model.KDFParams{N: scryptN, R: scryptR, P: scryptP, DKLen: scryptKeyLen}
}

// EncryptKey encrypts a plaintext private key under password.
// A fresh salt and nonce are generated for every call.
// password must be []byte for security (caller should zero it after use)
func EncryptKey(plaintext, password []byte) (*model.EncryptedKey, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	params := DefaultKDFParams()
	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// Seal appends the 16-byte tag to the ciphertext
	ciphertext := aesGCM.Seal(nil, nonce, plaintext, nil)

	return &model.EncryptedKey{
		KDF:          KDFName,
		KDFParams:    params,
		Salt:         base64.StdEncoding.EncodeToString(salt),
		IV:           base64.StdEncoding.EncodeToString(nonce),
		EncryptedKey: base64.StdEncoding.EncodeToString(ciphertext),
	}, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}
