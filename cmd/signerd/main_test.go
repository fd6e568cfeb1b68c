package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/session"
	"github.com/AlexZinkM/local-signer/internal/signing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEVMKey = "0x289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"

func setupEnv(t *testing.T) string {
	t.Helper()
	store := filepath.Join(t.TempDir(), "wallets.json")
	t.Setenv("PRINTR_WALLET_STORE", store)
	t.Setenv("AGENT_MODE", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_JSON", "true")
	return store
}

// stubPrompts answers password prompts in order.
func stubPrompts(t *testing.T, answers ...string) {
	t.Helper()
	prev := promptPassword
	t.Cleanup(func() { promptPassword = prev })

	promptPassword = func(string) ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("unexpected prompt")
		}
		a := answers[0]
		answers = answers[1:]
		return []byte(a), nil
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.Execute()
	return out.String(), err
}

func TestWalletNew_ListRemove(t *testing.T) {
	setupEnv(t)
	stubPrompts(t, "pw", "pw")

	out, err := run(t, "wallet", "new", "--chain", "eip155:8453", "--label", "launch")
	require.NoError(t, err)

	var created model.NewWalletResponse
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "eip155:8453", created.Chain)
	assert.NotEmpty(t, created.WalletID)

	out, err = run(t, "wallet", "list", "--chain", "eip155:8453")
	require.NoError(t, err)
	var listed []model.WalletSummary
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "launch", listed[0].Label)
	assert.NotContains(t, out, "encryptedKey")

	out, err = run(t, "wallet", "remove", created.WalletID)
	require.NoError(t, err)
	assert.Contains(t, out, created.WalletID)

	_, err = run(t, "wallet", "remove", created.WalletID)
	require.Error(t, err)
}

func TestWalletNew_PasswordMismatch(t *testing.T) {
	setupEnv(t)
	stubPrompts(t, "pw", "other")

	_, err := run(t, "wallet", "new", "--chain", "eip155:8453", "--label", "launch")
	require.EqualError(t, err, "passwords do not match")
}

func TestWalletImport_SavesWithLabel(t *testing.T) {
	setupEnv(t)
	stubPrompts(t, testEVMKey, "pw", "pw")

	out, err := run(t, "wallet", "import", "--chain", "eip155:1", "--label", "imported")
	require.NoError(t, err)

	var resp model.ImportWalletResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Saved)
	assert.True(t, strings.EqualFold("0x970e8128ab834e8eac17ab8e3812f010678cf791", resp.Address))
}

func TestWalletPasswd(t *testing.T) {
	setupEnv(t)
	stubPrompts(t, testEVMKey, "old", "old")
	out, err := run(t, "wallet", "import", "--chain", "eip155:1", "--label", "imported")
	require.NoError(t, err)
	var resp model.ImportWalletResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	stubPrompts(t, "wrong", "new", "new")
	_, err = run(t, "wallet", "passwd", resp.WalletID)
	require.EqualError(t, err, "incorrect password")

	stubPrompts(t, "old", "new", "new")
	out, err = run(t, "wallet", "passwd", resp.WalletID)
	require.NoError(t, err)
	assert.Contains(t, out, "Password changed")

	stubPrompts(t, "old", "newer", "newer")
	_, err = run(t, "wallet", "passwd", resp.WalletID)
	require.EqualError(t, err, "incorrect password")
}

func TestWalletNew_RejectsBadChain(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "wallet", "new", "--chain", "bitcoin", "--label", "x")
	require.Error(t, err)
}

func TestSign_NoActiveWallet(t *testing.T) {
	setupEnv(t)

	payload := `{"to":"eip155:8453:0x0000000000000000000000000000000000000001","calldata":"0x","value":"0","gas_limit":21000}`
	out, err := run(t, "sign", "--chain-type", "evm", "--payload", payload)
	require.ErrorIs(t, err, errNotSubmitted)

	var outcome signing.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, signing.StatusError, outcome.Status)
	assert.Contains(t, outcome.Message, "No active wallet")
}

func TestSign_InvalidExplicitKey(t *testing.T) {
	setupEnv(t)

	payload := `{"ixs":[],"mint_address":"x"}`
	out, err := run(t, "sign", "--chain-type", "svm", "--payload", payload, "--private-key", "nope")
	require.ErrorIs(t, err, errNotSubmitted)

	var outcome signing.Outcome
	require.NoError(t, json.Unmarshal([]byte(out), &outcome))
	assert.Equal(t, "Invalid private key format.", outcome.Message)
}

func TestSign_UnknownWalletAction(t *testing.T) {
	setupEnv(t)

	payload := `{"ixs":[],"mint_address":"x"}`
	out, err := run(t, "sign", "--chain-type", "svm", "--payload", payload, "--wallet-action", "steal")
	require.ErrorIs(t, err, errNotSubmitted)
	assert.Contains(t, out, "Unrecognised wallet action")
}

func TestReadPayload(t *testing.T) {
	raw, err := readPayload(`{"a":1}`, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))

	path := filepath.Join(t.TempDir(), "tx.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"b":2}`), 0o600))
	raw, err = readPayload("@"+path, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(raw))

	raw, err = readPayload("-", strings.NewReader(`[1,2]`))
	require.NoError(t, err)
	assert.JSONEq(t, `[1,2]`, string(raw))

	_, err = readPayload("{broken", nil)
	require.Error(t, err)
	_, err = readPayload("", nil)
	require.Error(t, err)
}

func TestPayloadChain(t *testing.T) {
	got, err := payloadChain(model.ChainTypeSVM, nil, "")
	require.NoError(t, err)
	assert.Equal(t, chain.SolanaMainnet, got)

	got, err = payloadChain(model.ChainTypeSVM, nil, "solana:devnet")
	require.NoError(t, err)
	assert.Equal(t, "solana:devnet", got)

	got, err = payloadChain(model.ChainTypeEVM, json.RawMessage(`{"to":"eip155:8453:0xabc"}`), "")
	require.NoError(t, err)
	assert.Equal(t, "eip155:8453", got)
}

func TestCheckChain(t *testing.T) {
	assert.NoError(t, checkChain("eip155:1"))
	assert.NoError(t, checkChain(chain.SolanaMainnet))
	assert.Error(t, checkChain("eip155"))
	assert.Error(t, checkChain("cosmos:hub"))
	assert.Error(t, checkChain(""))
}

func TestWaitWalletSession(t *testing.T) {
	store := session.NewWalletStore(nil)
	sess := store.Create(session.WalletInput{Action: model.WalletActionProvide, Chain: "eip155:1"})

	go func() {
		time.Sleep(50 * time.Millisecond)
		store.SetResult(sess.Token, model.WalletSessionResult{Status: model.TxStatusSuccess, Address: "0xabc"})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, waitWalletSession(ctx, store, sess.Token))

	require.Error(t, waitWalletSession(ctx, store, "unknown"))
}

func TestWaitTxResult_ContextDone(t *testing.T) {
	store := session.NewTxStore(nil)
	sess := store.Create(model.CreateSessionRequest{ChainType: model.ChainTypeEVM})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := waitTxResult(ctx, store, sess.Token)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	store.SetResult(sess.Token, model.TxResult{Status: model.TxStatusSuccess, TxHash: "0x1"})
	res, err := waitTxResult(context.Background(), store, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "0x1", res.TxHash)
}
