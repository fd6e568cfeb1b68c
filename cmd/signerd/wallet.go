package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/crypto"
)

func newWalletCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the encrypted local keystore",
	}
	cmd.AddCommand(
		newWalletNewCmd(get),
		newWalletImportCmd(get),
		newWalletListCmd(get),
		newWalletRemoveCmd(get),
		newWalletPasswdCmd(get),
		newWalletChainsCmd(),
	)
	return cmd
}

func newWalletNewCmd(get func() *app) *cobra.Command {
	var caip2, label string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a keypair and save it encrypted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkChain(caip2); err != nil {
				return err
			}
			password, err := promptNewPassword("Password: ")
			if err != nil {
				return err
			}
			defer clear(password)

			resp, err := get().wallets.New(caip2, label, password)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&caip2, "chain", "", "CAIP-2 chain id, e.g. eip155:8453")
	cmd.Flags().StringVar(&label, "label", "", "wallet label")
	_ = cmd.MarkFlagRequired("chain")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newWalletImportCmd(get func() *app) *cobra.Command {
	var caip2, label string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a raw private key",
		Long: `Import a raw private key (hex for EVM, base58 for Solana). The key is
read from the terminal without echo. It is saved to the keystore only when
--label is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkChain(caip2); err != nil {
				return err
			}
			rawKey, err := promptPassword("Private key: ")
			if err != nil {
				return err
			}
			defer clear(rawKey)

			var password []byte
			if label != "" {
				password, err = promptNewPassword("Password: ")
				if err != nil {
					return err
				}
				defer clear(password)
			}

			resp, err := get().wallets.Import(caip2, strings.TrimSpace(string(rawKey)), label, password)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&caip2, "chain", "", "CAIP-2 chain id, e.g. solana:5eykt4UsFv8P8NJdTREpY1vzqKqZKvdp")
	cmd.Flags().StringVar(&label, "label", "", "save under this label")
	_ = cmd.MarkFlagRequired("chain")
	return cmd
}

func newWalletListCmd(get func() *app) *cobra.Command {
	var caip2 string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored wallets without secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeJSON(cmd.OutOrStdout(), get().wallets.List(caip2))
		},
	}
	cmd.Flags().StringVar(&caip2, "chain", "", "only wallets for this CAIP-2 chain")
	return cmd
}

func newWalletRemoveCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a stored wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := get().wallets.Remove(args[0]); err != nil {
				return fmt.Errorf("failed to remove wallet %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed wallet %s\n", args[0])
			return nil
		},
	}
}

// newWalletPasswdCmd re-encrypts a stored wallet under a new password.
func newWalletPasswdCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <id>",
		Short: "Change the password of a stored wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldPassword, err := promptPassword("Current password: ")
			if err != nil {
				return err
			}
			defer clear(oldPassword)

			newPassword, err := promptNewPassword("New password: ")
			if err != nil {
				return err
			}
			defer clear(newPassword)

			err = get().wallets.ChangePassword(args[0], oldPassword, newPassword)
			if errors.Is(err, crypto.ErrWrongPassword) {
				return errors.New("incorrect password")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password changed for wallet %s\n", args[0])
			return nil
		},
	}
}

func newWalletChainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chains",
		Short: "List known CAIP-2 chains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, id := range chain.Networks() {
				n, _ := chain.Lookup(id)
				fmt.Fprintf(cmd.OutOrStdout(), "%-48s %s (%s)\n", id, n.Name, n.Symbol)
			}
			return nil
		},
	}
}

// checkChain rejects chain ids that are not CAIP-2 shaped.
func checkChain(caip2 string) error {
	ns, ref, ok := strings.Cut(caip2, ":")
	if !ok || ns == "" || ref == "" {
		return fmt.Errorf("invalid chain %q: expected a CAIP-2 id such as eip155:8453", caip2)
	}
	if ns != "eip155" && ns != "solana" {
		return fmt.Errorf("unsupported chain namespace %q", ns)
	}
	return nil
}
