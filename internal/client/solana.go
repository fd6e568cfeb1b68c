package client

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	addresslookuptable "github.com/gagliardetto/solana-go/programs/address-lookup-table"
	"github.com/gagliardetto/solana-go/rpc"
)

// SolanaClient is a client for working with Solana RPC
type SolanaClient struct {
	rpcClient *rpc.Client
}

// NewSolanaClient creates a new Solana client for the given endpoint.
func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
	}
}

// GetBalance gets the SOL balance in lamports for address
func (c *SolanaClient) GetBalance(ctx context.Context, address string) (uint64, error) {
	owner, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return 0, fmt.Errorf("invalid Solana address: %w", err)
	}

	balance, err := c.rpcClient.GetBalance(ctx, owner, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get SOL balance: %w", err)
	}
	return balance.Value, nil
}

// LatestBlockhash returns a recent blockhash at confirmed commitment.
func (c *SolanaClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	return recent.Value.Blockhash, nil
}

// LookupTable fetches the addresses stored in an address lookup table account.
func (c *SolanaClient) LookupTable(ctx context.Context, table solana.PublicKey) (solana.PublicKeySlice, error) {
	state, err := addresslookuptable.GetAddressLookupTable(ctx, c.rpcClient, table)
	if err != nil {
		return nil, fmt.Errorf("failed to get address lookup table %s: %w", table, err)
	}
	return state.Addresses, nil
}

// SendTransaction sends a signed transaction with confirmed preflight.
func (c *SolanaClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false, // simulate before the node accepts it
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// SignatureStatus returns the status of sig, or nil when the node does not know it yet.
func (c *SolanaClient) SignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	out, err := c.rpcClient.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		return nil, fmt.Errorf("failed to get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}
