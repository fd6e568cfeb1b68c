package common

import (
	"math/big"
	"strings"
)

const (
	SOLDecimals   = 9  // SOL has 9 decimals (lamports)
	EtherDecimals = 18 // native EVM currencies use 18 decimals (wei)
)

// FormatUnits converts an integer amount in base units to a decimal string
// without float precision loss. Trailing fractional zeros are dropped.
// Example: FormatUnits(big.NewInt(24981836), 9) = "0.024981836"
func FormatUnits(value *big.Int, decimals int) string {
	if value == nil {
		return "0"
	}

	neg := value.Sign() < 0
	s := new(big.Int).Abs(value).String()

	if decimals > 0 {
		// Pad with leading zeros if needed
		for len(s) <= decimals {
			s = "0" + s
		}
		pos := len(s) - decimals
		whole, frac := s[:pos], strings.TrimRight(s[pos:], "0")
		s = whole
		if frac != "" {
			s += "." + frac
		}
	}

	if neg {
		return "-" + s
	}
	return s
}
