package api

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/local-signer/docs"
	"github.com/AlexZinkM/local-signer/internal/handler"
	"github.com/AlexZinkM/local-signer/internal/metrics"
)

const (
	unlockInterval = 2 * time.Second
	unlockBurst    = 5
)

// Router bundles the handlers served by the broker.
type Router struct {
	Sessions *handler.SessionHandler
	Wallets  *handler.WalletHandler
	Metrics  *metrics.Metrics
	Unlock   *UnlockLimiter
}

// DefaultUnlockLimiter returns the limiter used for browser unlock attempts.
func DefaultUnlockLimiter() *UnlockLimiter {
	return NewUnlockLimiter(unlockInterval, unlockBurst)
}

// SetupRouter sets up router with handlers
func SetupRouter(rt Router) http.Handler {
	if rt.Unlock == nil {
		rt.Unlock = DefaultUnlockLimiter()
	}

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	if rt.Metrics != nil {
		mux.Handle("/metrics", rt.Metrics.Handler())
	}

	mux.HandleFunc("/health", rt.Sessions.Health)

	// Signing sessions
	mux.HandleFunc("/sessions", rt.Sessions.Create)
	mux.HandleFunc("/sessions/{token}", rt.Sessions.Get)
	mux.HandleFunc("/sessions/{token}/result", rt.Sessions.PutResult)

	// Wallet provisioning
	mux.HandleFunc("/wallet/sessions/{token}", rt.Wallets.Session)
	mux.HandleFunc("/wallet/unlock", rt.Wallets.UnlockPage)
	mux.HandleFunc("/wallet/unlock/{token}", rt.Unlock.Limit(rt.Wallets.Unlock))
	mux.HandleFunc("/wallet/provide", rt.Wallets.ProvidePage)
	mux.HandleFunc("/wallet/provide/{token}", rt.Wallets.Provide)
	mux.HandleFunc("/wallet/new", rt.Wallets.NewPage)
	mux.HandleFunc("/wallet/new/{token}/confirm", rt.Wallets.ConfirmNew)

	return RequestID(Logging(rt.Metrics)(CORS(LimitBody(mux))))
}
