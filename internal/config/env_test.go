package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PRINTR_WALLET_STORE", "")
	unsetenv(t, "AGENT_MODE")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.AgentMode)
	assert.Equal(t, DefaultPortStart, cfg.PortStart)
	assert.Equal(t, DefaultPortEnd, cfg.PortEnd)
	assert.Equal(t, "https://app.printr.money", cfg.AppURL)
	assert.Equal(t, filepath.Join(home, ".printr", "wallets.json"), cfg.WalletStore)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PRINTR_WALLET_STORE", "/tmp/ks.json")
	t.Setenv("AGENT_MODE", "true")
	t.Setenv("EVM_WALLET_PRIVATE_KEY", "0xabc")
	t.Setenv("SVM_RPC_URL", "http://localhost:8899")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ks.json", cfg.WalletStore)
	assert.True(t, cfg.AgentMode)
	assert.Equal(t, "0xabc", cfg.AgentKey("evm"))
	assert.Empty(t, cfg.AgentKey("svm"))
	assert.Equal(t, "http://localhost:8899", cfg.SVMRPCURL)
}

func TestLoad_AgentModeNumeric(t *testing.T) {
	t.Setenv("PRINTR_WALLET_STORE", "/tmp/ks.json")
	t.Setenv("AGENT_MODE", "1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.AgentMode)
}

func TestLoad_InvalidPortRange(t *testing.T) {
	t.Setenv("PRINTR_WALLET_STORE", "/tmp/ks.json")
	t.Setenv("SIGNER_PORT_START", "6000")
	t.Setenv("SIGNER_PORT_END", "5000")

	_, err := Load()
	require.Error(t, err)
}

func TestAgentKeyEnv(t *testing.T) {
	assert.Equal(t, "EVM_WALLET_PRIVATE_KEY", AgentKeyEnv("evm"))
	assert.Equal(t, "SVM_WALLET_PRIVATE_KEY", AgentKeyEnv("svm"))
}

func unsetenv(t *testing.T, key string) {
	t.Helper()
	prev, ok := os.LookupEnv(key)
	require.NoError(t, os.Unsetenv(key))
	t.Cleanup(func() {
		if ok {
			_ = os.Setenv(key, prev)
		}
	})
}
