package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/resolver"
	"github.com/AlexZinkM/local-signer/internal/session"
	"github.com/AlexZinkM/local-signer/internal/signing"
	"github.com/AlexZinkM/local-signer/internal/submit"
)

const pollInterval = 500 * time.Millisecond

type signFlags struct {
	chainType    string
	payload      string
	chain        string
	privateKey   string
	rpcURL       string
	walletAction string
	walletID     string
}

func newSignCmd(get func() *app) *cobra.Command {
	var f signFlags

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign and submit an unsigned transaction",
		Long: `Sign and submit an unsigned transaction with a local key.

The key comes from --private-key, the agent-mode environment, or a browser
wallet flow chosen with --wallet-action (unlock, provide or new). Browser flows
keep the broker running until the page completes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			defer a.broker.Shutdown(context.Background())

			payload, err := readPayload(f.payload, cmd.InOrStdin())
			if err != nil {
				return err
			}
			chainType := model.ChainType(f.chainType)
			if !chainType.Valid() {
				return errors.New("--chain-type must be evm or svm")
			}

			if f.walletAction != "" && f.privateKey == "" && !a.cfg.AgentMode {
				caip2, err := payloadChain(chainType, payload, f.chain)
				if err != nil {
					return err
				}
				res := a.resolver.Acquire(ctx, resolver.AcquireRequest{
					Chain:    caip2,
					Action:   model.WalletAction(f.walletAction),
					WalletID: f.walletID,
				})
				br, ok := res.(resolver.BrowserRequired)
				if !ok {
					out := signing.Describe(res)
					_ = writeJSON(cmd.OutOrStdout(), out)
					return errNotSubmitted
				}
				fmt.Fprintln(cmd.ErrOrStderr(), signing.Describe(br).Message)
				if err := waitWalletSession(ctx, a.wsess, br.Token); err != nil {
					return err
				}
			}

			out := a.signing.SignAndSubmit(ctx, signing.SignRequest{
				ChainType:  chainType,
				Payload:    payload,
				Chain:      f.chain,
				PrivateKey: f.privateKey,
				RPCURL:     f.rpcURL,
			})
			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if out.Status != signing.StatusSubmitted {
				return errNotSubmitted
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.chainType, "chain-type", "", "evm or svm")
	cmd.Flags().StringVar(&f.payload, "payload", "", "unsigned transaction JSON, @file or - for stdin")
	cmd.Flags().StringVar(&f.chain, "chain", "", "CAIP-2 chain for svm payloads (default Solana mainnet)")
	cmd.Flags().StringVar(&f.privateKey, "private-key", "", "sign with this key instead of resolving a wallet")
	cmd.Flags().StringVar(&f.rpcURL, "rpc-url", "", "RPC endpoint override")
	cmd.Flags().StringVar(&f.walletAction, "wallet-action", "", "browser flow to provision a wallet: unlock, provide or new")
	cmd.Flags().StringVar(&f.walletID, "wallet-id", "", "stored wallet id for --wallet-action unlock")
	_ = cmd.MarkFlagRequired("chain-type")
	_ = cmd.MarkFlagRequired("payload")
	return cmd
}

// payloadChain returns the CAIP-2 chain a payload targets.
func payloadChain(chainType model.ChainType, payload json.RawMessage, chainFlag string) (string, error) {
	if chainType == model.ChainTypeSVM {
		if chainFlag != "" {
			return chainFlag, nil
		}
		return chain.SolanaMainnet, nil
	}

	var p model.EVMPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("invalid EVM payload: %w", err)
	}
	return submit.ChainOf(p)
}

// waitWalletSession blocks until the browser flow for token records a result.
func waitWalletSession(ctx context.Context, store *session.WalletStore, token string) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		sess, ok := store.Get(token)
		if !ok {
			return errors.New("wallet session expired before it was completed")
		}
		if sess.Result != nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
