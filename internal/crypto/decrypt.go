package crypto

import (
	"encoding/base64"
	"errors"

	"github.com/AlexZinkM/local-signer/internal/model"

	"golang.org/x/crypto/scrypt"
)

// ErrWrongPassword is returned for every decryption failure. Wrong password,
// tampered ciphertext and corrupt parameters are deliberately not distinguished.
var ErrWrongPassword = errors.New("wrong password")

// upper bound on stored cost factors so a crafted entry cannot exhaust memory
const maxScryptN = 1 << 20

// DecryptKey re-derives the key from password and the entry's stored salt and
// parameters and opens the ciphertext.
// Caller should zero the returned plaintext after use.
func DecryptKey(enc *model.EncryptedKey, password []byte) ([]byte, error) {
	if enc == nil || enc.KDF != KDFName {
		return nil, ErrWrongPassword
	}

	params := enc.KDFParams
	if params.N <= 1 || params.N > maxScryptN || params.R <= 0 || params.P <= 0 || params.DKLen != scryptKeyLen {
		return nil, ErrWrongPassword
	}

	salt, err := base64.StdEncoding.DecodeString(enc.Salt)
	if err != nil {
		return nil, ErrWrongPassword
	}

	nonce, err := base64.StdEncoding.DecodeString(enc.IV)
	if err != nil || len(nonce) != nonceLen {
		return nil, ErrWrongPassword
	}

	ciphertext, err := base64.StdEncoding.DecodeString(enc.EncryptedKey)
	if err != nil {
		return nil, ErrWrongPassword
	}

	key, err := scrypt.Key(password, salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, ErrWrongPassword
	}
	defer clear(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, ErrWrongPassword
	}

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrWrongPassword
	}

	return plaintext, nil
}
