// Package resolver decides where the key for a signing request comes from
// and whether it can pay for the transaction.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/AlexZinkM/local-signer/internal/balance"
	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/config"
	"github.com/AlexZinkM/local-signer/internal/keystore"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/session"
	"github.com/AlexZinkM/local-signer/internal/wallet"
)

// BalanceChecker checks whether an address can pay for a transaction.
type BalanceChecker interface {
	Check(ctx context.Context, address string, tx balance.TxContext) (*balance.Balance, error)
}

// Broker starts the local HTTP broker if needed and returns its port.
type Broker interface {
	Start(ctx context.Context) (int, error)
}

// Resolver is the wallet resolution engine.
type Resolver struct {
	cfg      *config.Config
	wallets  *wallet.Service
	sessions *session.WalletStore
	balances BalanceChecker
	broker   Broker
}

// New creates a resolver.
func New(cfg *config.Config, wallets *wallet.Service, sessions *session.WalletStore, balances BalanceChecker, broker Broker) *Resolver {
	return &Resolver{
		cfg:      cfg,
		wallets:  wallets,
		sessions: sessions,
		balances: balances,
		broker:   broker,
	}
}

// Resolve finds a usable key for caip2. It never starts a browser flow on
// its own; see Acquire.
func (r *Resolver) Resolve(ctx context.Context, caip2 string, tx balance.TxContext) Resolution {
	if tx.Chain == "" {
		tx.Chain = caip2
	}
	family := chain.FamilyOf(caip2)
	name := chainName(caip2)

	if r.cfg.AgentMode {
		return r.resolveAgentMode(ctx, family, name, tx)
	}

	active, ok := r.wallets.Registry().Get(family)
	if !ok {
		log.Resolver.Debug().Str("chain", caip2).Msg("no active wallet")
		return Error{Message: r.noActiveWalletMessage(caip2, name)}
	}
	return r.checkFunds(ctx, active.PrivateKey, active.Address, name, tx)
}

func (r *Resolver) resolveAgentMode(ctx context.Context, family model.ChainType, name string, tx balance.TxContext) Resolution {
	envName := config.AgentKeyEnv(string(family))
	key := r.cfg.AgentKey(string(family))
	if key == "" {
		return Error{Message: fmt.Sprintf("No wallet configured. In AGENT_MODE, set %s or pass private_key in the tool call.", envName)}
	}

	address, err := chain.DeriveAddress(family, key)
	if err != nil {
		return Error{Message: fmt.Sprintf("%s is not a valid %s private key.", envName, strings.ToUpper(string(family)))}
	}
	return r.checkFunds(ctx, key, address, name, tx)
}

// checkFunds treats an unavailable balance check as sufficient.
func (r *Resolver) checkFunds(ctx context.Context, key, address, name string, tx balance.TxContext) Resolution {
	bal, err := r.balances.Check(ctx, address, tx)
	if err != nil {
		log.Resolver.Warn().Err(err).Str("chain", tx.Chain).Msg("balance check unavailable, assuming sufficient")
		return Ready{PrivateKey: key, Address: address}
	}
	if !bal.Sufficient {
		return InsufficientFunds{
			Address:  address,
			Balance:  bal.FormatBalance(),
			Required: bal.FormatRequired(),
			Symbol:   bal.Symbol,
			Chain:    name,
		}
	}
	return Ready{PrivateKey: key, Address: address}
}

func (r *Resolver) noActiveWalletMessage(caip2, name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "No active wallet for %s. Unlock a stored wallet, import a private key or generate a new wallet, then retry.", name)

	stored := r.wallets.List(caip2)
	if len(stored) > 0 {
		b.WriteString(" Stored wallets:")
		for _, w := range stored {
			fmt.Fprintf(&b, "\n- %s (%s) id=%s", w.Label, w.Address, w.ID)
		}
	}
	return b.String()
}

// AcquireRequest asks for a browser flow that provisions a wallet.
type AcquireRequest struct {
	Chain    string
	Action   model.WalletAction // empty means the user declined to choose
	WalletID string             // unlock only
}

// Acquire opens a wallet provisioning session and returns the browser URL
// that completes it.
func (r *Resolver) Acquire(ctx context.Context, req AcquireRequest) Resolution {
	if req.Action == "" {
		return Declined{}
	}
	if !req.Action.Valid() {
		return Error{Message: fmt.Sprintf("Unrecognised wallet action %q.", req.Action)}
	}

	in := session.WalletInput{Action: req.Action, Chain: req.Chain}
	var nw *NewWallet

	switch req.Action {
	case model.WalletActionUnlock:
		entry, err := r.wallets.Keystore().Get(req.WalletID)
		if errors.Is(err, keystore.ErrWalletNotFound) {
			return Error{Message: fmt.Sprintf("Wallet %s not found in keystore.", req.WalletID)}
		}
		if err != nil {
			return Error{Message: "Failed to read keystore."}
		}
		in.WalletID = entry.ID
		in.Address = entry.Address
		if in.Chain == "" {
			in.Chain = entry.Chain
		}
	case model.WalletActionNew:
		key, address, err := chain.GenerateKey(chain.FamilyOf(req.Chain))
		if err != nil {
			return Error{Message: "Failed to generate a wallet."}
		}
		in.Address = address
		in.PrivateKeyTemp = key
		nw = &NewWallet{Address: address, Chain: chainName(req.Chain), Symbol: chain.NativeSymbol(req.Chain)}
	}

	port, err := r.broker.Start(ctx)
	if err != nil {
		log.Resolver.Error().Err(err).Msg("failed to start broker")
		return Error{Message: "Could not start the local signing server: " + err.Error()}
	}

	sess := r.sessions.Create(in)
	log.Resolver.Info().Str("action", string(req.Action)).Str("chain", in.Chain).Msg("wallet session opened")

	return BrowserRequired{
		Action:    req.Action,
		Token:     sess.Token,
		URL:       WalletURL(port, req.Action, sess.Token),
		NewWallet: nw,
	}
}

// BaseURL is the broker origin for port.
func BaseURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// WalletURL builds the browser URL of a provisioning page.
func WalletURL(port int, action model.WalletAction, token string) string {
	return fmt.Sprintf("%s/wallet/%s?token=%s&api=%s", BaseURL(port), action, url.QueryEscape(token), url.QueryEscape(BaseURL(port)))
}

func chainName(caip2 string) string {
	if n, ok := chain.Lookup(caip2); ok {
		return n.Name
	}
	return caip2
}
