package signing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/AlexZinkM/local-signer/internal/balance"
	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/metrics"
	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/resolver"
	"github.com/AlexZinkM/local-signer/internal/session"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEVMKey = "0x289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"

func init() {
	log.SetOutput(io.Discard, "error")
}

type fakeResolver struct {
	res      resolver.Resolution
	gotChain string
	gotTx    balance.TxContext
	calls    int
}

func (f *fakeResolver) Resolve(_ context.Context, caip2 string, tx balance.TxContext) resolver.Resolution {
	f.calls++
	f.gotChain = caip2
	f.gotTx = tx
	return f.res
}

type fakeRPCs struct{}

func (fakeRPCs) RPCURL(_ string, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return "http://default", nil
}

type fakeEVM struct {
	key, rpc string
	err      error
}

func (f *fakeEVM) Submit(_ context.Context, p model.EVMPayload, key, rpc string) (*model.EVMSubmitResult, error) {
	f.key, f.rpc = key, rpc
	if f.err != nil {
		return nil, f.err
	}
	return &model.EVMSubmitResult{TxHash: "0xhash", BlockNumber: "42", Status: "success"}, nil
}

type fakeSVM struct {
	key string
}

func (f *fakeSVM) Submit(_ context.Context, p model.SVMPayload, key, rpc string) (*model.SVMSubmitResult, error) {
	f.key = key
	return &model.SVMSubmitResult{Signature: "sig", Slot: 9, ConfirmationStatus: "confirmed"}, nil
}

type fakeBroker struct{ port int }

func (f fakeBroker) Start(context.Context) (int, error) { return f.port, nil }

func newTestService(res resolver.Resolution) (*Service, *fakeResolver, *fakeEVM, *fakeSVM, *metrics.Metrics) {
	r := &fakeResolver{res: res}
	evm := &fakeEVM{}
	svm := &fakeSVM{}
	m := metrics.New()
	s := NewService(Deps{
		Resolver: r,
		RPCs:     fakeRPCs{},
		EVM:      evm,
		SVM:      svm,
		Sessions: session.NewTxStore(nil),
		Broker:   fakeBroker{port: 5180},
		AppURL:   "https://app.printr.money",
		Metrics:  m,
	})
	return s, r, evm, svm, m
}

func evmPayload(t *testing.T) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(model.EVMPayload{
		To:       "eip155:8453:0x000000000000000000000000000000000000dEaD",
		Calldata: "0x",
		Value:    "0",
		GasLimit: 300000,
	})
	require.NoError(t, err)
	return b
}

func TestSignAndSubmit_EVMReady(t *testing.T) {
	s, r, evm, _, m := newTestService(resolver.Ready{PrivateKey: "k", Address: "0xabc"})

	out := s.SignAndSubmit(context.Background(), SignRequest{ChainType: model.ChainTypeEVM, Payload: evmPayload(t)})
	assert.Equal(t, StatusSubmitted, out.Status)
	assert.Contains(t, out.Message, "0xhash")
	assert.Equal(t, "eip155:8453", r.gotChain)
	assert.Equal(t, uint64(300000), r.gotTx.GasLimit)
	assert.Equal(t, "k", evm.key)
	assert.Equal(t, "http://default", evm.rpc)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("evm", "success")))
}

func TestSignAndSubmit_ExplicitKeySkipsResolution(t *testing.T) {
	s, r, evm, _, _ := newTestService(resolver.Error{Message: "unused"})

	out := s.SignAndSubmit(context.Background(), SignRequest{
		ChainType:  model.ChainTypeEVM,
		Payload:    evmPayload(t),
		PrivateKey: testEVMKey,
		RPCURL:     "http://custom",
	})
	assert.Equal(t, StatusSubmitted, out.Status)
	assert.Zero(t, r.calls)
	assert.Equal(t, testEVMKey, evm.key)
	assert.Equal(t, "http://custom", evm.rpc)

	out = s.SignAndSubmit(context.Background(), SignRequest{ChainType: model.ChainTypeEVM, Payload: evmPayload(t), PrivateKey: "bad"})
	assert.Equal(t, StatusError, out.Status)
	assert.Equal(t, "Invalid private key format.", out.Message)
}

func TestSignAndSubmit_NonReadyBranches(t *testing.T) {
	cases := []struct {
		res    resolver.Resolution
		status string
		text   string
	}{
		{resolver.Error{Message: "No wallet configured. In AGENT_MODE, set EVM_WALLET_PRIVATE_KEY or pass private_key in the tool call."}, StatusError, "EVM_WALLET_PRIVATE_KEY"},
		{resolver.Declined{}, StatusDeclined, "No wallet was selected"},
		{resolver.InsufficientFunds{Address: "0xabc", Balance: "0.1", Required: "0.2", Symbol: "ETH", Chain: "Base"}, StatusInsufficientFunds, "needs about 0.2 ETH"},
		{resolver.BrowserRequired{Action: model.WalletActionUnlock, URL: "http://localhost:5174/wallet/unlock?token=t"}, StatusBrowserRequired, "unlock your stored wallet"},
	}
	for _, c := range cases {
		s, _, evm, _, _ := newTestService(c.res)
		out := s.SignAndSubmit(context.Background(), SignRequest{ChainType: model.ChainTypeEVM, Payload: evmPayload(t)})
		assert.Equal(t, c.status, out.Status)
		assert.Contains(t, out.Message, c.text)
		assert.Empty(t, evm.key, "nothing is submitted without a ready key")
	}
}

func TestSignAndSubmit_SVMDefaultsToMainnet(t *testing.T) {
	w := solana.NewWallet()
	s, r, _, svm, _ := newTestService(resolver.Ready{PrivateKey: w.PrivateKey.String(), Address: w.PublicKey().String()})

	payload, err := json.Marshal(model.SVMPayload{Ixs: []model.SVMInstruction{}})
	require.NoError(t, err)

	out := s.SignAndSubmit(context.Background(), SignRequest{ChainType: model.ChainTypeSVM, Payload: payload})
	assert.Equal(t, StatusSubmitted, out.Status)
	assert.Equal(t, chain.SolanaMainnet, r.gotChain)
	assert.Equal(t, w.PrivateKey.String(), svm.key)
}

func TestSignAndSubmit_SubmitFailure(t *testing.T) {
	s, _, evm, _, m := newTestService(resolver.Ready{PrivateKey: "k", Address: "0xabc"})
	evm.err = errors.New("insufficient funds for gas")

	out := s.SignAndSubmit(context.Background(), SignRequest{ChainType: model.ChainTypeEVM, Payload: evmPayload(t)})
	assert.Equal(t, StatusFailed, out.Status)
	assert.Contains(t, out.Message, "insufficient funds for gas")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("evm", "failed")))
}

func TestSignAndSubmit_BadInput(t *testing.T) {
	s, _, _, _, _ := newTestService(resolver.Declined{})

	assert.Equal(t, StatusError, s.SignAndSubmit(context.Background(), SignRequest{ChainType: "btc"}).Status)
	assert.Equal(t, StatusError, s.SignAndSubmit(context.Background(), SignRequest{ChainType: model.ChainTypeEVM, Payload: json.RawMessage(`{"to":"0xdead"}`)}).Status)
	assert.Equal(t, StatusError, s.SignAndSubmit(context.Background(), SignRequest{ChainType: model.ChainTypeSVM, Payload: json.RawMessage(`[`)}).Status)
}

func TestDescribe_NewWallet(t *testing.T) {
	out := Describe(resolver.BrowserRequired{
		Action:    model.WalletActionNew,
		URL:       "http://localhost:5174/wallet/new?token=t",
		NewWallet: &resolver.NewWallet{Address: "0xnew", Chain: "Base", Symbol: "ETH"},
	})
	assert.Equal(t, StatusBrowserRequired, out.Status)
	assert.Contains(t, out.Message, "New Base address: 0xnew")
	assert.Equal(t, "http://localhost:5174/wallet/new?token=t", out.URL)
}

func TestOpenWebSigner(t *testing.T) {
	s, _, _, _, m := newTestService(nil)

	resp, err := s.OpenWebSigner(context.Background(), WebSignRequest{
		ChainType: model.ChainTypeEVM,
		Payload:   json.RawMessage(`{}`),
		TokenID:   "0x1",
	})
	require.NoError(t, err)
	assert.Equal(t, 5180, resp.APIPort)

	u, err := url.Parse(resp.URL)
	require.NoError(t, err)
	assert.Equal(t, "app.printr.money", u.Host)
	assert.Equal(t, "/sign", u.Path)
	assert.Equal(t, resp.SessionToken, u.Query().Get("session"))
	assert.Equal(t, "http://localhost:5180", u.Query().Get("api"))

	sess, ok := s.txs.Get(resp.SessionToken)
	require.True(t, ok)
	assert.Equal(t, "0x1", sess.TokenID)
	assert.Equal(t, resp.ExpiresAt, sess.ExpiresAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsOpened.WithLabelValues("tx")))

	custom, err := s.OpenWebSigner(context.Background(), WebSignRequest{ChainType: model.ChainTypeSVM, AppURL: "http://localhost:3000/"})
	require.NoError(t, err)
	assert.Contains(t, custom.URL, "http://localhost:3000/sign?session=")

	_, err = s.OpenWebSigner(context.Background(), WebSignRequest{ChainType: "btc"})
	assert.Error(t, err)
}
