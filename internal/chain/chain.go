// Package chain holds chain family rules: CAIP identifiers, static network
// metadata and private key handling for EVM and Solana.
package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/AlexZinkM/local-signer/internal/model"
)

// SolanaMainnet is the CAIP-2 identifier of Solana mainnet-beta.
const SolanaMainnet = "solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp"

// FamilyOf returns the chain family of a CAIP-2 chain ID.
// Anything that is not a solana namespace is treated as EVM.
func FamilyOf(caip2 string) model.ChainType {
	if strings.HasPrefix(caip2, "solana:") {
		return model.ChainTypeSVM
	}
	return model.ChainTypeEVM
}

// ParseCAIP10 splits "namespace:reference:address" into the CAIP-2 chain ID
// and the account address.
func ParseCAIP10(s string) (caip2, address string, err error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", fmt.Errorf("invalid CAIP-10 account id %q", s)
	}
	return parts[0] + ":" + parts[1], parts[2], nil
}

// EVMChainID extracts the numeric chain id from an "eip155:<id>" CAIP-2 string.
func EVMChainID(caip2 string) (*big.Int, error) {
	ref, ok := strings.CutPrefix(caip2, "eip155:")
	if !ok {
		return nil, fmt.Errorf("not an eip155 chain: %q", caip2)
	}
	id, ok := new(big.Int).SetString(ref, 10)
	if !ok || id.Sign() <= 0 {
		return nil, fmt.Errorf("invalid eip155 chain id %q", ref)
	}
	return id, nil
}
