package chain

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/AlexZinkM/local-signer/internal/model"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ErrInvalidKeyFormat is returned when key bytes do not parse for the chain family.
var ErrInvalidKeyFormat = errors.New("invalid private key format")

// ParseEVMKey parses a secp256k1 private key in hex, with or without 0x.
func ParseEVMKey(key string) (*ecdsa.PrivateKey, error) {
	hexKey := strings.TrimPrefix(strings.TrimSpace(key), "0x")
	pk, err := ethcrypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	return pk, nil
}

// ParseSVMKey parses a base58 64-byte Solana keypair and checks that the
// public half matches the seed.
func ParseSVMKey(key string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(strings.TrimSpace(key))
	if err != nil {
		return nil, fmt.Errorf("%w: not base58", ErrInvalidKeyFormat)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeyFormat, ed25519.PrivateKeySize, len(raw))
	}

	derived := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("%w: public key does not match seed", ErrInvalidKeyFormat)
	}
	return solana.PrivateKey(raw), nil
}

// DeriveAddress returns the canonical address for a private key of the given
// family: a checksummed hex address for EVM, a base58 public key for Solana.
func DeriveAddress(family model.ChainType, key string) (string, error) {
	switch family {
	case model.ChainTypeEVM:
		pk, err := ParseEVMKey(key)
		if err != nil {
			return "", err
		}
		return ethcrypto.PubkeyToAddress(pk.PublicKey).Hex(), nil
	case model.ChainTypeSVM:
		pk, err := ParseSVMKey(key)
		if err != nil {
			return "", err
		}
		defer clear(pk)
		return pk.PublicKey().String(), nil
	default:
		return "", fmt.Errorf("unknown chain family %q", family)
	}
}

// GenerateKey creates a fresh keypair for the family and returns the encoded
// private key and its address.
func GenerateKey(family model.ChainType) (privateKey, address string, err error) {
	switch family {
	case model.ChainTypeEVM:
		pk, err := ethcrypto.GenerateKey()
		if err != nil {
			return "", "", fmt.Errorf("failed to generate key: %w", err)
		}
		raw := ethcrypto.FromECDSA(pk)
		defer clear(raw)
		return hexutil.Encode(raw), ethcrypto.PubkeyToAddress(pk.PublicKey).Hex(), nil
	case model.ChainTypeSVM:
		wallet := solana.NewWallet()
		defer clear(wallet.PrivateKey)
		return wallet.PrivateKey.String(), wallet.PublicKey().String(), nil
	default:
		return "", "", fmt.Errorf("unknown chain family %q", family)
	}
}
