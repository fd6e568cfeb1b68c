package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

const (
	DefaultPortStart = 5174
	DefaultPortEnd   = 5200
)

// Config contains all configuration parameters for the broker and the CLI.
// Values come from the environment only, there are no config files.
type Config struct {
	WalletStore   string `envconfig:"PRINTR_WALLET_STORE"`
	AgentMode     bool   `envconfig:"AGENT_MODE" default:"false"`
	EVMPrivateKey string `envconfig:"EVM_WALLET_PRIVATE_KEY"`
	SVMPrivateKey string `envconfig:"SVM_WALLET_PRIVATE_KEY"`
	EVMRPCURL     string `envconfig:"EVM_RPC_URL"`
	SVMRPCURL     string `envconfig:"SVM_RPC_URL"`
	AppURL        string `envconfig:"PRINTR_APP_URL" default:"https://app.printr.money"`
	PortStart     int    `envconfig:"SIGNER_PORT_START" default:"5174"`
	PortEnd       int    `envconfig:"SIGNER_PORT_END" default:"5200"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON       bool   `envconfig:"LOG_JSON" default:"false"`
}

// Load reads configuration from environment variables and fills in defaults
// that depend on the runtime (the keystore path lives under the home directory).
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.WalletStore == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.WalletStore = DefaultWalletStore(home)
	}

	if cfg.PortStart <= 0 || cfg.PortEnd < cfg.PortStart || cfg.PortEnd > 65535 {
		return nil, fmt.Errorf("invalid port range %d-%d", cfg.PortStart, cfg.PortEnd)
	}

	return cfg, nil
}

// DefaultWalletStore returns the keystore location for the given home directory.
func DefaultWalletStore(home string) string {
	return filepath.Join(home, ".printr", "wallets.json")
}

// AgentKeyEnv returns the name of the environment variable holding the
// agent-mode private key for a chain family ("evm" or "svm").
func AgentKeyEnv(family string) string {
	if family == "svm" {
		return "SVM_WALLET_PRIVATE_KEY"
	}
	return "EVM_WALLET_PRIVATE_KEY"
}

// AgentKey returns the configured agent-mode key for a chain family.
func (c *Config) AgentKey(family string) string {
	if family == "svm" {
		return c.SVMPrivateKey
	}
	return c.EVMPrivateKey
}

// PromptPassword prompts the user for a password in the terminal.
// The password is read without echoing (hidden input).
// Caller must zero the returned slice after use.
func PromptPassword(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run the command interactively to enter a password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("password cannot be empty")
	}

	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}
