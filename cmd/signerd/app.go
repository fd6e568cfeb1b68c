package main

import (
	"github.com/AlexZinkM/local-signer/internal/api"
	"github.com/AlexZinkM/local-signer/internal/balance"
	"github.com/AlexZinkM/local-signer/internal/config"
	"github.com/AlexZinkM/local-signer/internal/handler"
	"github.com/AlexZinkM/local-signer/internal/keystore"
	"github.com/AlexZinkM/local-signer/internal/metrics"
	"github.com/AlexZinkM/local-signer/internal/resolver"
	"github.com/AlexZinkM/local-signer/internal/server"
	"github.com/AlexZinkM/local-signer/internal/session"
	"github.com/AlexZinkM/local-signer/internal/signing"
	"github.com/AlexZinkM/local-signer/internal/submit"
	"github.com/AlexZinkM/local-signer/internal/wallet"
)

// app is the wired process: one keystore, one registry, one broker.
type app struct {
	cfg      *config.Config
	wallets  *wallet.Service
	txs      *session.TxStore
	wsess    *session.WalletStore
	broker   *server.Broker
	resolver *resolver.Resolver
	signing  *signing.Service
}

func newApp(cfg *config.Config) (*app, error) {
	m := metrics.New()
	wallets := wallet.NewService(keystore.New(cfg.WalletStore), wallet.NewRegistry())
	txs := session.NewTxStore(nil)
	wsess := session.NewWalletStore(nil)
	checker := balance.NewChecker(cfg.EVMRPCURL, cfg.SVMRPCURL)

	pages, err := handler.NewPages()
	if err != nil {
		return nil, err
	}
	limiter := api.DefaultUnlockLimiter()
	router := api.SetupRouter(api.Router{
		Sessions: handler.NewSessionHandler(txs, m),
		Wallets:  handler.NewWalletHandler(wsess, wallets, checker, pages, m),
		Metrics:  m,
		Unlock:   limiter,
	})

	broker := server.NewBroker(router, cfg.PortStart, cfg.PortEnd, txs, wsess, limiter)
	res := resolver.New(cfg, wallets, wsess, checker, broker)

	return &app{
		cfg:      cfg,
		wallets:  wallets,
		txs:      txs,
		wsess:    wsess,
		broker:   broker,
		resolver: res,
		signing: signing.NewService(signing.Deps{
			Resolver: res,
			RPCs:     checker,
			EVM:      submit.NewEVMSubmitter(),
			SVM:      submit.NewSVMSubmitter(),
			Sessions: txs,
			Broker:   broker,
			AppURL:   cfg.AppURL,
			Metrics:  m,
		}),
	}, nil
}
