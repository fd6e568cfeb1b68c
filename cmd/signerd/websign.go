package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/session"
	"github.com/AlexZinkM/local-signer/internal/signing"
)

type webSignFlags struct {
	chainType   string
	payload     string
	tokenID     string
	tokenName   string
	tokenSymbol string
	imageURL    string
	rpcURL      string
	appURL      string
}

func newWebSignCmd(get func() *app) *cobra.Command {
	var f webSignFlags

	cmd := &cobra.Command{
		Use:   "web-sign",
		Short: "Hand an unsigned transaction to the browser signer",
		Long: `Store an unsigned transaction in the local broker and print the web app
link that signs it. The command keeps the broker up until the browser reports a
result or the session expires.`,
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

			req := signing.WebSignRequest{
				ChainType: model.ChainType(f.chainType),
				Payload:   payload,
				TokenID:   f.tokenID,
				RPCURL:    f.rpcURL,
				AppURL:    f.appURL,
			}
			if f.tokenName != "" || f.tokenSymbol != "" {
				req.TokenMeta = &model.TokenMeta{Name: f.tokenName, Symbol: f.tokenSymbol, ImageURL: f.imageURL}
			}

			resp, err := a.signing.OpenWebSigner(ctx, req)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL to sign:\n%s\n", resp.URL)
			result, err := waitTxResult(ctx, a.txs, resp.SessionToken)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.Status != model.TxStatusSuccess {
				return errNotSubmitted
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.chainType, "chain-type", "", "evm or svm")
	cmd.Flags().StringVar(&f.payload, "payload", "", "unsigned transaction JSON, @file or - for stdin")
	cmd.Flags().StringVar(&f.tokenID, "token-id", "", "launch API token id")
	cmd.Flags().StringVar(&f.tokenName, "token-name", "", "token name shown by the signer")
	cmd.Flags().StringVar(&f.tokenSymbol, "token-symbol", "", "token symbol shown by the signer")
	cmd.Flags().StringVar(&f.imageURL, "image-url", "", "token image shown by the signer")
	cmd.Flags().StringVar(&f.rpcURL, "rpc-url", "", "RPC endpoint the signer should use")
	cmd.Flags().StringVar(&f.appURL, "app-url", "", "web app base URL (default PRINTR_APP_URL)")
	_ = cmd.MarkFlagRequired("chain-type")
	_ = cmd.MarkFlagRequired("payload")
	return cmd
}

// waitTxResult blocks until the web signer records a result for token.
func waitTxResult(ctx context.Context, store *session.TxStore, token string) (*model.TxResult, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		sess, err := store.Lookup(token)
		if err != nil {
			return nil, errors.New("signing session expired before the browser reported a result")
		}
		if sess.Result != nil {
			return sess.Result, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
