package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/local-signer/internal/config"
	"github.com/AlexZinkM/local-signer/internal/log"
)

// errNotSubmitted is returned after an outcome that is not a submission has
// already been printed.
var errNotSubmitted = errors.New("transaction not submitted")

// promptPassword is replaced in tests.
var promptPassword = config.PromptPassword

func newRootCmd() *cobra.Command {
	var a *app

	root := &cobra.Command{
		Use:   "signerd",
		Short: "Local signing broker for token launch transactions",
		Long: `signerd keeps private keys on this machine. It signs and submits EVM and
Solana transactions, hands unsigned transactions to the web signer, and runs a
loopback HTTP broker for browser wallet flows.

Example:
  signerd wallet new --chain eip155:8453 --label launch
  signerd sign --chain-type evm --payload @tx.json --wallet-action unlock --wallet-id <id>
  signerd web-sign --chain-type svm --payload @tx.json --token-id <id>`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log.Init(cfg.LogLevel, cfg.LogJSON)

			a, err = newApp(cfg)
			return err
		},
	}

	get := func() *app { return a }
	root.AddCommand(
		newServeCmd(get),
		newSignCmd(get),
		newWebSignCmd(get),
		newWalletCmd(get),
	)
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readPayload reads a JSON payload given inline, as @file, or as "-" for stdin.
func readPayload(arg string, stdin io.Reader) (json.RawMessage, error) {
	var raw []byte
	var err error
	switch {
	case arg == "":
		return nil, errors.New("--payload is required")
	case arg == "-":
		raw, err = io.ReadAll(stdin)
	case strings.HasPrefix(arg, "@"):
		raw, err = os.ReadFile(strings.TrimPrefix(arg, "@"))
	default:
		raw = []byte(arg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if !json.Valid(raw) {
		return nil, errors.New("payload is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

// promptNewPassword asks for a password twice.
func promptNewPassword(prompt string) ([]byte, error) {
	pw, err := promptPassword(prompt)
	if err != nil {
		return nil, err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		clear(pw)
		return nil, err
	}
	defer clear(confirm)

	if string(pw) != string(confirm) {
		clear(pw)
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}
