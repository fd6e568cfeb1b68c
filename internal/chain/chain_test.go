package chain

import (
	"testing"

	"github.com/AlexZinkM/local-signer/internal/model"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// key/address pair from go-ethereum's crypto tests
const (
	testEVMKey     = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"
	testEVMAddress = "0x970e8128ab834e8eac17ab8e3812f010678cf791"
)

func TestFamilyOf(t *testing.T) {
	assert.Equal(t, model.ChainTypeSVM, FamilyOf(SolanaMainnet))
	assert.Equal(t, model.ChainTypeSVM, FamilyOf("solana:devnet"))
	assert.Equal(t, model.ChainTypeEVM, FamilyOf("eip155:8453"))
	assert.Equal(t, model.ChainTypeEVM, FamilyOf("whatever"))
}

func TestParseCAIP10(t *testing.T) {
	caip2, addr, err := ParseCAIP10("eip155:8453:0xabc")
	require.NoError(t, err)
	assert.Equal(t, "eip155:8453", caip2)
	assert.Equal(t, "0xabc", addr)

	for _, bad := range []string{"", "eip155:8453", "eip155::0x1", ":1:0x1"} {
		_, _, err := ParseCAIP10(bad)
		assert.Error(t, err, bad)
	}
}

func TestEVMChainID(t *testing.T) {
	id, err := EVMChainID("eip155:42161")
	require.NoError(t, err)
	assert.Equal(t, int64(42161), id.Int64())

	_, err = EVMChainID(SolanaMainnet)
	assert.Error(t, err)
	_, err = EVMChainID("eip155:abc")
	assert.Error(t, err)
	_, err = EVMChainID("eip155:0")
	assert.Error(t, err)
}

func TestLookupAndSymbol(t *testing.T) {
	n, ok := Lookup("eip155:8453")
	require.True(t, ok)
	assert.Equal(t, "Base", n.Name)
	assert.Equal(t, 18, n.Decimals)

	n, ok = Lookup(SolanaMainnet)
	require.True(t, ok)
	assert.Equal(t, 9, n.Decimals)

	plasma, ok := Lookup("eip155:9745")
	require.True(t, ok)
	assert.Empty(t, plasma.DefaultRPC)

	assert.Equal(t, "BNB", NativeSymbol("eip155:56"))
	assert.Equal(t, "ETH", NativeSymbol("eip155:777777"))
	assert.Equal(t, "SOL", NativeSymbol("solana:devnet"))
	assert.Len(t, Networks(), 12)
}

func TestDeriveAddress_EVM(t *testing.T) {
	addr, err := DeriveAddress(model.ChainTypeEVM, testEVMKey)
	require.NoError(t, err)
	assert.Equal(t, gethcommon.HexToAddress(testEVMAddress).Hex(), addr)

	withPrefix, err := DeriveAddress(model.ChainTypeEVM, "0x"+testEVMKey)
	require.NoError(t, err)
	assert.Equal(t, addr, withPrefix)
}

func TestDeriveAddress_SVM(t *testing.T) {
	wallet := solana.NewWallet()

	addr, err := DeriveAddress(model.ChainTypeSVM, wallet.PrivateKey.String())
	require.NoError(t, err)
	assert.Equal(t, wallet.PublicKey().String(), addr)
}

func TestDeriveAddress_Invalid(t *testing.T) {
	cases := []struct {
		family model.ChainType
		key    string
	}{
		{model.ChainTypeEVM, "not-hex"},
		{model.ChainTypeEVM, "0x1234"},
		{model.ChainTypeSVM, "0OIl"},
		{model.ChainTypeSVM, base58.Encode(make([]byte, 32))},
	}
	for _, c := range cases {
		_, err := DeriveAddress(c.family, c.key)
		assert.ErrorIs(t, err, ErrInvalidKeyFormat, c.key)
	}
}

func TestParseSVMKey_MismatchedPublicHalf(t *testing.T) {
	a := solana.NewWallet()
	b := solana.NewWallet()
	raw := append([]byte{}, a.PrivateKey[:32]...)
	raw = append(raw, b.PublicKey().Bytes()...)

	_, err := ParseSVMKey(base58.Encode(raw))
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)
}

func TestGenerateKey(t *testing.T) {
	for _, family := range []model.ChainType{model.ChainTypeEVM, model.ChainTypeSVM} {
		key, addr, err := GenerateKey(family)
		require.NoError(t, err)

		derived, err := DeriveAddress(family, key)
		require.NoError(t, err)
		assert.Equal(t, addr, derived, family)
	}

	key, _, err := GenerateKey(model.ChainTypeEVM)
	require.NoError(t, err)
	assert.Len(t, key, 66)
	assert.Equal(t, "0x", key[:2])
}
