// Package submit signs launch payloads and broadcasts them to the target chain.
package submit

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/client"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/model"

	"github.com/ethereum/go-ethereum"
	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// DefaultPollInterval is how often receipts and signature statuses are polled.
const DefaultPollInterval = 2 * time.Second

// EVMNode is the RPC surface needed to submit an EVM transaction.
type EVMNode interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, from gethcommon.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, hash gethcommon.Hash) (*types.Receipt, error)
	Close()
}

// EVMSubmitter signs legacy EIP-155 transactions and waits for their receipt.
type EVMSubmitter struct {
	dial         func(ctx context.Context, url string) (EVMNode, error)
	pollInterval time.Duration
}

// NewEVMSubmitter creates a submitter backed by ethclient.
func NewEVMSubmitter() *EVMSubmitter {
	return &EVMSubmitter{
		dial: func(ctx context.Context, url string) (EVMNode, error) {
			return client.DialEVM(ctx, url)
		},
		pollInterval: DefaultPollInterval,
	}
}

// ChainOf returns the CAIP-2 chain of an EVM payload.
func ChainOf(p model.EVMPayload) (string, error) {
	caip2, _, err := chain.ParseCAIP10(p.To)
	return caip2, err
}

// Submit signs payload with privateKey, sends it to rpcURL and blocks until
// the receipt is available or ctx is done.
func (s *EVMSubmitter) Submit(ctx context.Context, p model.EVMPayload, privateKey, rpcURL string) (*model.EVMSubmitResult, error) {
	pk, err := chain.ParseEVMKey(privateKey)
	if err != nil {
		return nil, err
	}

	node, err := s.dial(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	defer node.Close()

	from := ethcrypto.PubkeyToAddress(pk.PublicKey)
	nonce, err := node.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, err
	}
	gasPrice, err := node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := BuildEVMTx(p, nonce, gasPrice)
	if err != nil {
		return nil, err
	}
	chainID, err := evmChainID(p)
	if err != nil {
		return nil, err
	}
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), pk)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := node.SendTransaction(ctx, signed); err != nil {
		return nil, err
	}
	log.Submit.Info().Str("hash", signed.Hash().Hex()).Str("chain", chainID.String()).Msg("evm transaction sent")

	receipt, err := s.waitReceipt(ctx, node, signed.Hash())
	if err != nil {
		return nil, err
	}

	status := "success"
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = "reverted"
	}
	return &model.EVMSubmitResult{
		TxHash:      signed.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.String(),
		Status:      status,
	}, nil
}

// BuildEVMTx builds the unsigned legacy transaction for p.
func BuildEVMTx(p model.EVMPayload, nonce uint64, gasPrice *big.Int) (*types.Transaction, error) {
	_, toHex, err := chain.ParseCAIP10(p.To)
	if err != nil {
		return nil, err
	}
	if !gethcommon.IsHexAddress(toHex) {
		return nil, fmt.Errorf("invalid target address %q", toHex)
	}
	to := gethcommon.HexToAddress(toHex)

	calldata := p.Calldata
	if !strings.HasPrefix(calldata, "0x") {
		calldata = "0x" + calldata
	}
	data, err := hexutil.Decode(calldata)
	if err != nil {
		return nil, fmt.Errorf("invalid calldata: %w", err)
	}

	value, err := parseValue(p.Value)
	if err != nil {
		return nil, err
	}

	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      p.GasLimit,
		To:       &to,
		Value:    value,
		Data:     data,
	}), nil
}

// parseValue reads a wei amount as decimal or 0x-prefixed hex.
func parseValue(s string) (*big.Int, error) {
	value := new(big.Int)
	if s == "" {
		return value, nil
	}
	digits, base := s, 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits, base = s[2:], 16
	}
	if _, ok := value.SetString(digits, base); !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid value %q", s)
	}
	return value, nil
}

func evmChainID(p model.EVMPayload) (*big.Int, error) {
	caip2, err := ChainOf(p)
	if err != nil {
		return nil, err
	}
	return chain.EVMChainID(caip2)
}

func (s *EVMSubmitter) waitReceipt(ctx context.Context, node EVMNode, hash gethcommon.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := node.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt of %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
