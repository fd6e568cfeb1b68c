package client

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EVMClient is a thin wrapper over an ethclient connection.
type EVMClient struct {
	eth    *ethclient.Client
	rpcURL string
}

// DialEVM connects to an EVM JSON-RPC endpoint.
func DialEVM(ctx context.Context, rpcURL string) (*EVMClient, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	return &EVMClient{eth: eth, rpcURL: rpcURL}, nil
}

// Close releases the underlying connection.
func (c *EVMClient) Close() {
	c.eth.Close()
}

// BalanceAt returns the latest native balance of address in wei.
func (c *EVMClient) BalanceAt(ctx context.Context, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid EVM address %q", address)
	}
	bal, err := c.eth.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return bal, nil
}

// SuggestGasPrice returns the node's legacy gas price.
func (c *EVMClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	price, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}
	return price, nil
}

// PendingNonceAt returns the next nonce for from.
func (c *EVMClient) PendingNonceAt(ctx context.Context, from common.Address) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce: %w", err)
	}
	return nonce, nil
}

// SendTransaction broadcasts a signed transaction.
func (c *EVMClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}
	return nil
}

// TransactionReceipt returns the receipt of hash. ethereum.NotFound is
// passed through unwrapped so callers can keep polling.
func (c *EVMClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	receipt, err := c.eth.TransactionReceipt(ctx, hash)
	if err == ethereum.NotFound {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return receipt, nil
}
