package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		value    int64
		decimals int
		want     string
	}{
		{24981836, 9, "0.024981836"},
		{5000, 9, "0.000005"},
		{1_000_000_000, 9, "1"},
		{1_500_000_000, 9, "1.5"},
		{0, 18, "0"},
		{42, 0, "42"},
		{-5000, 9, "-0.000005"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUnits(big.NewInt(tt.value), tt.decimals))
	}
}

func TestFormatUnits_Nil(t *testing.T) {
	assert.Equal(t, "0", FormatUnits(nil, 18))
}

func TestFormatUnits_LargeWei(t *testing.T) {
	wei, ok := new(big.Int).SetString("1234500000000000000000", 10)
	require.True(t, ok)
	assert.Equal(t, "1234.5", FormatUnits(wei, EtherDecimals))
}
