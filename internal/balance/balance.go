// Package balance answers whether an address can pay for a pending transaction.
// Checks are advisory: callers treat ErrNoRPC and ErrFetchFailed as
// "assume sufficient" and show unknown figures.
package balance

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/client"
	"github.com/AlexZinkM/local-signer/internal/common"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/model"
)

// SVMMinFeeLamports is the fee floor a Solana payer must hold (one signature).
const SVMMinFeeLamports = 5000

var (
	// ErrNoRPC is returned when neither an override nor a default endpoint is known.
	ErrNoRPC = errors.New("no RPC endpoint known for network")
	// ErrFetchFailed wraps every dial, network and decode failure.
	ErrFetchFailed = errors.New("balance fetch failed")
)

// TxContext carries the fee-relevant fields of a pending transaction.
type TxContext struct {
	Chain    string // CAIP-2
	GasLimit uint64 // EVM only
	RPCURL   string // optional per-request override
}

// Balance is the outcome of a successful check. Amounts are base units.
type Balance struct {
	Address    string
	Chain      string
	Balance    *big.Int
	Required   *big.Int
	Symbol     string
	Decimals   int
	Sufficient bool
}

// FormatBalance returns the balance in whole units.
func (b *Balance) FormatBalance() string {
	return common.FormatUnits(b.Balance, b.Decimals)
}

// FormatRequired returns the required amount in whole units.
func (b *Balance) FormatRequired() string {
	return common.FormatUnits(b.Required, b.Decimals)
}

// EVMClient is the subset of the EVM RPC client used for balance checks.
type EVMClient interface {
	BalanceAt(ctx context.Context, address string) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	Close()
}

// SVMClient is the subset of the Solana RPC client used for balance checks.
type SVMClient interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
}

// Checker queries balances over RPC.
type Checker struct {
	evmRPCURL string
	svmRPCURL string
	dialEVM   func(ctx context.Context, url string) (EVMClient, error)
	dialSVM   func(url string) SVMClient
}

// NewChecker creates a checker. evmRPCURL and svmRPCURL are process-wide
// overrides and may be empty.
func NewChecker(evmRPCURL, svmRPCURL string) *Checker {
	return &Checker{
		evmRPCURL: evmRPCURL,
		svmRPCURL: svmRPCURL,
		dialEVM: func(ctx context.Context, url string) (EVMClient, error) {
			return client.DialEVM(ctx, url)
		},
		dialSVM: func(url string) SVMClient {
			return client.NewSolanaClient(url)
		},
	}
}

// Check compares the balance of address with what tx needs.
func (c *Checker) Check(ctx context.Context, address string, tx TxContext) (*Balance, error) {
	var (
		res *Balance
		err error
	)
	if chain.FamilyOf(tx.Chain) == model.ChainTypeSVM {
		res, err = c.checkSVM(ctx, address, tx)
	} else {
		res, err = c.checkEVM(ctx, address, tx)
	}
	if err != nil {
		log.Balance.Debug().Err(err).Str("chain", tx.Chain).Str("address", address).Msg("balance check unavailable")
		return nil, err
	}

	res.Sufficient = res.Balance.Cmp(res.Required) >= 0
	log.Balance.Debug().
		Str("chain", tx.Chain).
		Str("address", address).
		Str("balance", res.FormatBalance()).
		Str("required", res.FormatRequired()).
		Bool("sufficient", res.Sufficient).
		Msg("balance checked")
	return res, nil
}

// RPCURL resolves the endpoint for chain: per-request override, then the
// process-wide family override, then the network default.
func (c *Checker) RPCURL(caip2, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if chain.FamilyOf(caip2) == model.ChainTypeSVM {
		if c.svmRPCURL != "" {
			return c.svmRPCURL, nil
		}
		if n, ok := chain.Lookup(caip2); ok && n.DefaultRPC != "" {
			return n.DefaultRPC, nil
		}
		n, _ := chain.Lookup(chain.SolanaMainnet)
		return n.DefaultRPC, nil
	}

	if c.evmRPCURL != "" {
		return c.evmRPCURL, nil
	}
	if n, ok := chain.Lookup(caip2); ok && n.DefaultRPC != "" {
		return n.DefaultRPC, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoRPC, caip2)
}

func (c *Checker) checkEVM(ctx context.Context, address string, tx TxContext) (*Balance, error) {
	url, err := c.RPCURL(tx.Chain, tx.RPCURL)
	if err != nil {
		return nil, err
	}

	cl, err := c.dialEVM(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer cl.Close()

	bal, err := cl.BalanceAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	gasPrice, err := cl.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	decimals := common.EtherDecimals
	if n, ok := chain.Lookup(tx.Chain); ok {
		decimals = n.Decimals
	}

	return &Balance{
		Address:  address,
		Chain:    tx.Chain,
		Balance:  bal,
		Required: new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(tx.GasLimit)),
		Symbol:   chain.NativeSymbol(tx.Chain),
		Decimals: decimals,
	}, nil
}

func (c *Checker) checkSVM(ctx context.Context, address string, tx TxContext) (*Balance, error) {
	url, err := c.RPCURL(tx.Chain, tx.RPCURL)
	if err != nil {
		return nil, err
	}

	lamports, err := c.dialSVM(url).GetBalance(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return &Balance{
		Address:  address,
		Chain:    tx.Chain,
		Balance:  new(big.Int).SetUint64(lamports),
		Required: big.NewInt(SVMMinFeeLamports),
		Symbol:   "SOL",
		Decimals: common.SOLDecimals,
	}, nil
}
