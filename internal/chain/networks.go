package chain

import (
	"sort"

	"github.com/AlexZinkM/local-signer/internal/common"
	"github.com/AlexZinkM/local-signer/internal/model"
)

// Network is static display and connectivity metadata for a CAIP-2 chain.
type Network struct {
	Name       string
	Symbol     string
	Decimals   int
	DefaultRPC string // empty when no public endpoint is known
}

var networks = map[string]Network{
	"eip155:1":     {Name: "Ethereum", Symbol: "ETH", Decimals: common.EtherDecimals, DefaultRPC: "https://cloudflare-eth.com"},
	"eip155:56":    {Name: "BNB", Symbol: "BNB", Decimals: common.EtherDecimals, DefaultRPC: "https://bsc-dataseed.binance.org"},
	"eip155:130":   {Name: "Unichain", Symbol: "ETH", Decimals: common.EtherDecimals, DefaultRPC: "https://mainnet.unichain.org"},
	"eip155:143":   {Name: "Monad", Symbol: "MON", Decimals: common.EtherDecimals, DefaultRPC: "https://testnet-rpc.monad.xyz"},
	"eip155:999":   {Name: "HyperEVM", Symbol: "HYPE", Decimals: common.EtherDecimals, DefaultRPC: "https://rpc.hyperliquid-evm.xyz/evm"},
	"eip155:5000":  {Name: "Mantle", Symbol: "MNT", Decimals: common.EtherDecimals, DefaultRPC: "https://rpc.mantle.xyz"},
	"eip155:6342":  {Name: "MegaETH", Symbol: "ETH", Decimals: common.EtherDecimals, DefaultRPC: "https://carrot.megaeth.com/rpc"},
	"eip155:8453":  {Name: "Base", Symbol: "ETH", Decimals: common.EtherDecimals, DefaultRPC: "https://mainnet.base.org"},
	"eip155:9745":  {Name: "Plasma", Symbol: "XPL", Decimals: common.EtherDecimals},
	"eip155:42161": {Name: "Arbitrum", Symbol: "ETH", Decimals: common.EtherDecimals, DefaultRPC: "https://arb1.arbitrum.io/rpc"},
	"eip155:43114": {Name: "Avalanche", Symbol: "AVAX", Decimals: common.EtherDecimals, DefaultRPC: "https://api.avax.network/ext/bc/C/rpc"},
	SolanaMainnet:  {Name: "Solana", Symbol: "SOL", Decimals: common.SOLDecimals, DefaultRPC: "https://api.mainnet-beta.solana.com"},
}

// Lookup returns the metadata of a known network.
func Lookup(caip2 string) (Network, bool) {
	n, ok := networks[caip2]
	return n, ok
}

// NativeSymbol returns the native currency symbol, falling back to the family default.
func NativeSymbol(caip2 string) string {
	if n, ok := networks[caip2]; ok {
		return n.Symbol
	}
	if FamilyOf(caip2) == model.ChainTypeSVM {
		return "SOL"
	}
	return "ETH"
}

// Networks returns all known CAIP-2 ids in stable order.
func Networks() []string {
	ids := make([]string, 0, len(networks))
	for id := range networks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
