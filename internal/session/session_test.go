package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AlexZinkM/local-signer/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTxStore_CreateThenGet(t *testing.T) {
	clock := newClock()
	s := NewTxStore(clock.now)

	created := s.Create(model.CreateSessionRequest{
		ChainType: model.ChainTypeEVM,
		Payload:   json.RawMessage(`{}`),
		TokenID:   "0x1",
	})
	require.NotEmpty(t, created.Token)
	assert.Equal(t, clock.t.UnixMilli(), created.CreatedAt)
	assert.Equal(t, clock.t.Add(30*time.Minute).UnixMilli(), created.ExpiresAt)

	got, ok := s.Get(created.Token)
	require.True(t, ok)
	assert.Equal(t, model.ChainTypeEVM, got.ChainType)
	assert.Equal(t, "0x1", got.TokenID)
	assert.Nil(t, got.Result)
}

func TestTxStore_TTL(t *testing.T) {
	clock := newClock()
	s := NewTxStore(clock.now)
	created := s.Create(model.CreateSessionRequest{ChainType: model.ChainTypeSVM})

	clock.advance(29 * time.Minute)
	_, ok := s.Get(created.Token)
	assert.True(t, ok)

	clock.advance(2 * time.Minute)
	_, err := s.Lookup(created.Token)
	assert.ErrorIs(t, err, ErrExpired)

	_, err = s.Lookup(created.Token)
	assert.ErrorIs(t, err, ErrNotFound, "expired session is evicted on first read")
}

func TestTxStore_ExactExpiryStillReadable(t *testing.T) {
	clock := newClock()
	s := NewTxStore(clock.now)
	created := s.Create(model.CreateSessionRequest{ChainType: model.ChainTypeEVM})

	clock.advance(TTL)
	_, ok := s.Get(created.Token)
	assert.True(t, ok)
}

func TestTxStore_UniqueTokens(t *testing.T) {
	s := NewTxStore(nil)
	a := s.Create(model.CreateSessionRequest{ChainType: model.ChainTypeEVM})
	b := s.Create(model.CreateSessionRequest{ChainType: model.ChainTypeEVM})
	assert.NotEqual(t, a.Token, b.Token)
}

func TestTxStore_SetResult(t *testing.T) {
	clock := newClock()
	s := NewTxStore(clock.now)
	created := s.Create(model.CreateSessionRequest{ChainType: model.ChainTypeEVM})

	result := model.TxResult{Status: model.TxStatusSuccess, TxHash: "0xabc"}
	require.True(t, s.SetResult(created.Token, result))

	got, ok := s.Get(created.Token)
	require.True(t, ok)
	require.NotNil(t, got.Result)
	assert.Equal(t, result, *got.Result)

	// last write wins
	require.True(t, s.SetResult(created.Token, model.TxResult{Status: model.TxStatusFailed, Error: "rejected"}))
	got, _ = s.Get(created.Token)
	assert.Equal(t, model.TxStatusFailed, got.Result.Status)

	assert.False(t, s.SetResult("missing", result))

	clock.advance(31 * time.Minute)
	assert.False(t, s.SetResult(created.Token, result))
}

func TestWalletStore_SetResultPurgesSecret(t *testing.T) {
	s := NewWalletStore(nil)
	created := s.Create(WalletInput{
		Action:         model.WalletActionNew,
		Chain:          "eip155:8453",
		Address:        "0xabc",
		PrivateKeyTemp: "0xsecret",
	})

	got, ok := s.Get(created.Token)
	require.True(t, ok)
	assert.Equal(t, "0xsecret", got.PrivateKeyTemp)

	require.True(t, s.SetResult(created.Token, model.WalletSessionResult{Status: model.TxStatusSuccess, Address: "0xabc"}))

	got, ok = s.Get(created.Token)
	require.True(t, ok)
	assert.Empty(t, got.PrivateKeyTemp)
	assert.Equal(t, "0xabc", got.Address)
	require.NotNil(t, got.Result)
	assert.Equal(t, model.TxStatusSuccess, got.Result.Status)
}

func TestWalletStore_TTL(t *testing.T) {
	clock := newClock()
	s := NewWalletStore(clock.now)
	created := s.Create(WalletInput{Action: model.WalletActionUnlock, Chain: "eip155:1", WalletID: "w1"})

	clock.advance(31 * time.Minute)
	_, ok := s.Get(created.Token)
	assert.False(t, ok)
	assert.False(t, s.SetResult(created.Token, model.WalletSessionResult{Status: model.TxStatusSuccess}))
}

func TestStore_Sweep(t *testing.T) {
	clock := newClock()
	s := NewStore[int](time.Minute, clock.now)
	s.Put(func(string, time.Time, time.Time) int { return 1 })
	clock.advance(30 * time.Second)
	s.Put(func(string, time.Time, time.Time) int { return 2 })

	clock.advance(45 * time.Second)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 0, s.Sweep())

	clock.advance(20 * time.Second)
	assert.Equal(t, 1, s.Sweep())
}
