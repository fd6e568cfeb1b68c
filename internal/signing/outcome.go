package signing

import (
	"fmt"
	"strings"

	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/resolver"
)

// Outcome statuses.
const (
	StatusSubmitted         = "submitted"
	StatusFailed            = "failed"
	StatusBrowserRequired   = "browser_required"
	StatusInsufficientFunds = "insufficient_funds"
	StatusDeclined          = "declined"
	StatusError             = "error"
)

// Outcome is what a signing call reports back to the agent. Message always
// says which branch was hit and what resolves it.
type Outcome struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
	Address string `json:"address,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// Describe turns a resolution into an agent-facing outcome.
func Describe(res resolver.Resolution) Outcome {
	switch r := res.(type) {
	case resolver.Ready:
		return Outcome{Status: StatusSubmitted, Address: r.Address, Message: fmt.Sprintf("Wallet %s is ready to sign.", r.Address)}
	case resolver.BrowserRequired:
		var b strings.Builder
		fmt.Fprintf(&b, "Open this URL in a browser to %s:\n%s\n", actionPhrase(r.Action), r.URL)
		if r.NewWallet != nil {
			fmt.Fprintf(&b, "New %s address: %s. Fund it with %s before signing.\n", r.NewWallet.Chain, r.NewWallet.Address, r.NewWallet.Symbol)
		}
		b.WriteString("Once the page reports success, retry the signing call.")
		return Outcome{Status: StatusBrowserRequired, URL: r.URL, Message: b.String()}
	case resolver.InsufficientFunds:
		return Outcome{
			Status:  StatusInsufficientFunds,
			Address: r.Address,
			Message: fmt.Sprintf("Wallet %s on %s has %s %s but needs about %s %s for fees. Fund the wallet and retry.",
				r.Address, r.Chain, r.Balance, r.Symbol, r.Required, r.Symbol),
		}
	case resolver.Declined:
		return Outcome{Status: StatusDeclined, Message: "No wallet was selected. Choose, import or generate a wallet, then retry."}
	case resolver.Error:
		return Outcome{Status: StatusError, Message: r.Message}
	default:
		return Outcome{Status: StatusError, Message: "Unknown wallet resolution."}
	}
}

func actionPhrase(a model.WalletAction) string {
	switch a {
	case model.WalletActionUnlock:
		return "unlock your stored wallet"
	case model.WalletActionProvide:
		return "enter a private key"
	case model.WalletActionNew:
		return "back up and confirm your new wallet"
	default:
		return string(a)
	}
}
