package submit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/client"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/model"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// SVMNode is the RPC surface needed to submit a Solana transaction.
type SVMNode interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	LookupTable(ctx context.Context, table solana.PublicKey) (solana.PublicKeySlice, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	SignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error)
}

// SVMSubmitter compiles instruction payloads into versioned transactions and
// waits for confirmed commitment.
type SVMSubmitter struct {
	dial         func(url string) SVMNode
	pollInterval time.Duration
}

// NewSVMSubmitter creates a submitter backed by the solana-go RPC client.
func NewSVMSubmitter() *SVMSubmitter {
	return &SVMSubmitter{
		dial: func(url string) SVMNode {
			return client.NewSolanaClient(url)
		},
		pollInterval: DefaultPollInterval,
	}
}

// Submit signs payload with the base58 keypair privateKey, sends it and
// blocks until it is confirmed or ctx is done.
func (s *SVMSubmitter) Submit(ctx context.Context, p model.SVMPayload, privateKey, rpcURL string) (*model.SVMSubmitResult, error) {
	wallet, err := chain.ParseSVMKey(privateKey)
	if err != nil {
		return nil, err
	}
	defer clear(wallet)

	ixs, err := BuildInstructions(p)
	if err != nil {
		return nil, err
	}

	node := s.dial(rpcURL)

	opts := []solana.TransactionOption{solana.TransactionPayer(wallet.PublicKey())}
	if p.LookupTable != "" {
		table, err := solana.PublicKeyFromBase58(p.LookupTable)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup table address: %w", err)
		}
		addresses, err := node.LookupTable(ctx, table)
		if err != nil {
			return nil, err
		}
		opts = append(opts, solana.TransactionAddressTables(map[solana.PublicKey]solana.PublicKeySlice{
			table: addresses,
		}))
	}

	blockhash, err := node.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(ixs, blockhash, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if wallet.PublicKey().Equals(key) {
			return &wallet
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := node.SendTransaction(ctx, tx)
	if err != nil {
		return nil, err
	}
	log.Submit.Info().Str("signature", sig.String()).Msg("svm transaction sent")

	return s.waitConfirmed(ctx, node, sig)
}

// BuildInstructions decodes the payload's instructions.
func BuildInstructions(p model.SVMPayload) ([]solana.Instruction, error) {
	if len(p.Ixs) == 0 {
		return nil, fmt.Errorf("payload has no instructions")
	}

	out := make([]solana.Instruction, 0, len(p.Ixs))
	for i, ix := range p.Ixs {
		programID, err := solana.PublicKeyFromBase58(ix.ProgramID)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: invalid program id: %w", i, err)
		}

		accounts := make(solana.AccountMetaSlice, 0, len(ix.Accounts))
		for j, a := range ix.Accounts {
			pubkey, err := solana.PublicKeyFromBase58(a.Pubkey)
			if err != nil {
				return nil, fmt.Errorf("instruction %d account %d: invalid pubkey: %w", i, j, err)
			}
			accounts = append(accounts, solana.NewAccountMeta(pubkey, a.IsWritable, a.IsSigner))
		}

		data, err := base64.StdEncoding.DecodeString(ix.Data)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: invalid data: %w", i, err)
		}

		out = append(out, solana.NewInstruction(programID, accounts, data))
	}
	return out, nil
}

func (s *SVMSubmitter) waitConfirmed(ctx context.Context, node SVMNode, sig solana.Signature) (*model.SVMSubmitResult, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		status, err := node.SignatureStatus(ctx, sig)
		if err != nil {
			return nil, err
		}
		if status != nil {
			if status.Err != nil {
				detail, _ := json.Marshal(status.Err)
				return nil, fmt.Errorf("transaction failed: %s", detail)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return &model.SVMSubmitResult{
					Signature:          sig.String(),
					Slot:               status.Slot,
					ConfirmationStatus: string(status.ConfirmationStatus),
				}, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for confirmation of %s: %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}
