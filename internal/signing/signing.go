// Package signing implements the agent-facing signing operations: sign and
// submit with wallet resolution, and handing a payload to the web signer.
package signing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/AlexZinkM/local-signer/internal/balance"
	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/metrics"
	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/resolver"
	"github.com/AlexZinkM/local-signer/internal/session"
)

// SubmitTimeout bounds how long a submission waits for confirmation.
const SubmitTimeout = 2 * time.Minute

// Resolver resolves the signing key for a chain.
type Resolver interface {
	Resolve(ctx context.Context, caip2 string, tx balance.TxContext) resolver.Resolution
}

// RPCSelector picks the RPC endpoint for a chain.
type RPCSelector interface {
	RPCURL(caip2, override string) (string, error)
}

// EVMSubmitter signs and submits EVM payloads.
type EVMSubmitter interface {
	Submit(ctx context.Context, p model.EVMPayload, privateKey, rpcURL string) (*model.EVMSubmitResult, error)
}

// SVMSubmitter signs and submits Solana payloads.
type SVMSubmitter interface {
	Submit(ctx context.Context, p model.SVMPayload, privateKey, rpcURL string) (*model.SVMSubmitResult, error)
}

// Service runs signing operations.
type Service struct {
	resolver Resolver
	rpcs     RPCSelector
	evm      EVMSubmitter
	svm      SVMSubmitter
	txs      *session.TxStore
	broker   resolver.Broker
	appURL   string
	metrics  *metrics.Metrics
}

// Deps groups the collaborators of a Service.
type Deps struct {
	Resolver Resolver
	RPCs     RPCSelector
	EVM      EVMSubmitter
	SVM      SVMSubmitter
	Sessions *session.TxStore
	Broker   resolver.Broker
	AppURL   string
	Metrics  *metrics.Metrics
}

// NewService creates a signing service.
func NewService(d Deps) *Service {
	return &Service{
		resolver: d.Resolver,
		rpcs:     d.RPCs,
		evm:      d.EVM,
		svm:      d.SVM,
		txs:      d.Sessions,
		broker:   d.Broker,
		appURL:   d.AppURL,
		metrics:  d.Metrics,
	}
}

// SignRequest asks for a payload to be signed and submitted.
type SignRequest struct {
	ChainType model.ChainType
	Payload   json.RawMessage
	// Chain is the CAIP-2 chain for svm payloads; EVM payloads carry it in "to".
	Chain string
	// PrivateKey bypasses wallet resolution when set.
	PrivateKey string
	RPCURL     string
}

// SignAndSubmit resolves a key for the payload's chain and, when one is
// ready, signs and submits the transaction.
func (s *Service) SignAndSubmit(ctx context.Context, req SignRequest) Outcome {
	switch req.ChainType {
	case model.ChainTypeEVM:
		var p model.EVMPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return Outcome{Status: StatusError, Message: "Invalid EVM payload: " + err.Error()}
		}
		caip2, _, err := chain.ParseCAIP10(p.To)
		if err != nil {
			return Outcome{Status: StatusError, Message: "Invalid EVM payload: " + err.Error()}
		}
		return s.signEVM(ctx, caip2, p, req)
	case model.ChainTypeSVM:
		var p model.SVMPayload
		if err := json.Unmarshal(req.Payload, &p); err != nil {
			return Outcome{Status: StatusError, Message: "Invalid SVM payload: " + err.Error()}
		}
		return s.signSVM(ctx, p, req)
	default:
		return Outcome{Status: StatusError, Message: "chain_type must be evm or svm"}
	}
}

func (s *Service) signEVM(ctx context.Context, caip2 string, p model.EVMPayload, req SignRequest) Outcome {
	tx := balance.TxContext{Chain: caip2, GasLimit: p.GasLimit, RPCURL: req.RPCURL}

	ready, out, ok := s.resolve(ctx, model.ChainTypeEVM, caip2, tx, req.PrivateKey)
	if !ok {
		return out
	}

	rpcURL, err := s.rpcs.RPCURL(caip2, req.RPCURL)
	if err != nil {
		return Outcome{Status: StatusError, Message: fmt.Sprintf("No RPC endpoint known for %s. Pass rpc_url or set EVM_RPC_URL.", caip2)}
	}

	ctx, cancel := context.WithTimeout(ctx, SubmitTimeout)
	defer cancel()

	res, err := s.evm.Submit(ctx, p, ready.PrivateKey, rpcURL)
	if err != nil {
		return s.failed(model.ChainTypeEVM, ready.Address, err)
	}
	s.countSubmission(model.ChainTypeEVM, res.Status)
	return Outcome{
		Status:  StatusSubmitted,
		Address: ready.Address,
		Message: fmt.Sprintf("Transaction %s included in block %s with status %s.", res.TxHash, res.BlockNumber, res.Status),
		Result:  res,
	}
}

func (s *Service) signSVM(ctx context.Context, p model.SVMPayload, req SignRequest) Outcome {
	caip2 := req.Chain
	if caip2 == "" {
		caip2 = chain.SolanaMainnet
	}
	tx := balance.TxContext{Chain: caip2, RPCURL: req.RPCURL}

	ready, out, ok := s.resolve(ctx, model.ChainTypeSVM, caip2, tx, req.PrivateKey)
	if !ok {
		return out
	}

	rpcURL, err := s.rpcs.RPCURL(caip2, req.RPCURL)
	if err != nil {
		return Outcome{Status: StatusError, Message: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, SubmitTimeout)
	defer cancel()

	res, err := s.svm.Submit(ctx, p, ready.PrivateKey, rpcURL)
	if err != nil {
		return s.failed(model.ChainTypeSVM, ready.Address, err)
	}
	s.countSubmission(model.ChainTypeSVM, res.ConfirmationStatus)
	return Outcome{
		Status:  StatusSubmitted,
		Address: ready.Address,
		Message: fmt.Sprintf("Transaction %s %s at slot %d.", res.Signature, res.ConfirmationStatus, res.Slot),
		Result:  res,
	}
}

// resolve returns the ready key, or the outcome to report when there is none.
func (s *Service) resolve(ctx context.Context, family model.ChainType, caip2 string, tx balance.TxContext, explicitKey string) (resolver.Ready, Outcome, bool) {
	var res resolver.Resolution
	if explicitKey != "" {
		address, err := chain.DeriveAddress(family, explicitKey)
		if err != nil {
			res = resolver.Error{Message: "Invalid private key format."}
		} else {
			res = resolver.Ready{PrivateKey: explicitKey, Address: address}
		}
	} else {
		res = s.resolver.Resolve(ctx, caip2, tx)
	}

	out := Describe(res)
	if s.metrics != nil {
		outcome := out.Status
		if outcome == StatusSubmitted {
			outcome = "ready"
		}
		s.metrics.Resolutions.WithLabelValues(outcome).Inc()
	}

	ready, ok := res.(resolver.Ready)
	return ready, out, ok
}

func (s *Service) failed(family model.ChainType, address string, err error) Outcome {
	log.Submit.Error().Err(err).Str("family", string(family)).Str("address", address).Msg("submission failed")
	s.countSubmission(family, StatusFailed)

	msg := "Transaction failed: " + err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "Transaction was sent but not confirmed in time. Check the explorer before retrying."
	}
	return Outcome{Status: StatusFailed, Address: address, Message: msg}
}

func (s *Service) countSubmission(family model.ChainType, status string) {
	if s.metrics != nil {
		s.metrics.Submissions.WithLabelValues(string(family), status).Inc()
	}
}

// WebSignRequest hands an unsigned payload to the browser signer.
type WebSignRequest struct {
	ChainType model.ChainType
	Payload   json.RawMessage
	TokenID   string
	TokenMeta *model.TokenMeta
	RPCURL    string
	AppURL    string // overrides the configured web app
}

// OpenWebSigner starts the broker, stores a signing session and returns the
// web app deep link for it.
func (s *Service) OpenWebSigner(ctx context.Context, req WebSignRequest) (*model.WebSignerResponse, error) {
	create := model.CreateSessionRequest{
		ChainType: req.ChainType,
		Payload:   req.Payload,
		TokenID:   req.TokenID,
		TokenMeta: req.TokenMeta,
		RPCURL:    req.RPCURL,
	}
	if err := create.Validate(); err != nil {
		return nil, err
	}

	port, err := s.broker.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start broker: %w", err)
	}

	sess := s.txs.Create(create)
	if s.metrics != nil {
		s.metrics.SessionsOpened.WithLabelValues("tx").Inc()
	}

	appBase := req.AppURL
	if appBase == "" {
		appBase = s.appURL
	}
	link := fmt.Sprintf("%s/sign?session=%s&api=%s",
		strings.TrimRight(appBase, "/"), url.QueryEscape(sess.Token), url.QueryEscape(resolver.BaseURL(port)))

	return &model.WebSignerResponse{
		URL:          link,
		SessionToken: sess.Token,
		APIPort:      port,
		ExpiresAt:    sess.ExpiresAt,
	}, nil
}
