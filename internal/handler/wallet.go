package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AlexZinkM/local-signer/internal/balance"
	"github.com/AlexZinkM/local-signer/internal/chain"
	"github.com/AlexZinkM/local-signer/internal/crypto"
	"github.com/AlexZinkM/local-signer/internal/keystore"
	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/metrics"
	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/session"
	"github.com/AlexZinkM/local-signer/internal/wallet"
)

const (
	// provideGasLimit is the gas budget assumed when checking a provided key.
	provideGasLimit = 300000
	balanceTimeout  = 10 * time.Second
)

// BalanceChecker checks whether an address can pay for a transaction.
type BalanceChecker interface {
	Check(ctx context.Context, address string, tx balance.TxContext) (*balance.Balance, error)
}

// WalletHandler serves the browser wallet provisioning flows.
type WalletHandler struct {
	sessions *session.WalletStore
	wallets  *wallet.Service
	balances BalanceChecker
	pages    *Pages
	metrics  *metrics.Metrics
}

// NewWalletHandler creates a WalletHandler. m may be nil.
func NewWalletHandler(sessions *session.WalletStore, wallets *wallet.Service, balances BalanceChecker, pages *Pages, m *metrics.Metrics) *WalletHandler {
	return &WalletHandler{
		sessions: sessions,
		wallets:  wallets,
		balances: balances,
		pages:    pages,
		metrics:  m,
	}
}

// Session handles GET /wallet/sessions/{token}
// @Summary      Get wallet session
// @Tags         wallet
// @Produce      json
// @Param        token  path      string  true  "Session token"
// @Success      200    {object}  model.WalletSessionView
// @Failure      404    {object}  model.ErrorResponse
// @Router       /wallet/sessions/{token} [get]
func (h *WalletHandler) Session(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	sess, ok := h.sessions.Get(r.PathValue("token"))
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	view := model.WalletSessionView{
		Token:          sess.Token,
		Action:         sess.Action,
		Chain:          sess.Chain,
		Address:        sess.Address,
		PrivateKeyTemp: sess.PrivateKeyTemp,
	}
	if sess.WalletID != "" {
		if entry, err := h.wallets.Keystore().Get(sess.WalletID); err == nil {
			view.Label = entry.Label
			view.Address = entry.Address
		}
	}

	writeJSON(w, http.StatusOK, view)
}

// UnlockPage handles GET /wallet/unlock
// @Summary      Unlock page
// @Tags         wallet
// @Produce      html
// @Param        token  query  string  true   "Session token"
// @Param        api    query  string  false  "Broker origin"
// @Success      200
// @Failure      404
// @Router       /wallet/unlock [get]
func (h *WalletHandler) UnlockPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	sess, ok := h.sessions.Get(token)
	if !ok || sess.Action != model.WalletActionUnlock || sess.WalletID == "" {
		h.pages.missing(w, "Session not found")
		return
	}
	entry, err := h.wallets.Keystore().Get(sess.WalletID)
	if err != nil {
		h.pages.missing(w, "Wallet not found")
		return
	}

	h.pages.render(w, http.StatusOK, pageUnlock, pageData{
		Title:    "Unlock Wallet",
		Endpoint: apiBase(r) + "/wallet/unlock/" + token,
		Label:    entry.Label,
		Address:  entry.Address,
	})
}

// Unlock handles POST /wallet/unlock/{token}
// @Summary      Unlock stored wallet
// @Description  Decrypts the session's wallet and makes it the active wallet for its chain family
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        token    path      string               true  "Session token"
// @Param        request  body      model.UnlockRequest  true  "Password"
// @Success      200      {object}  model.OKResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallet/unlock/{token} [post]
func (h *WalletHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	token := r.PathValue("token")
	sess, ok := h.sessions.Get(token)
	if !ok || sess.WalletID == "" {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	var req model.UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	summary, err := h.wallets.Unlock(sess.WalletID, password)
	switch {
	case errors.Is(err, keystore.ErrWalletNotFound):
		h.countUnlock("not_found")
		writeError(w, http.StatusNotFound, "Wallet not found in keystore")
		return
	case errors.Is(err, crypto.ErrWrongPassword):
		h.countUnlock("wrong_password")
		writeJSON(w, http.StatusOK, model.OKResponse{OK: false, Error: "Incorrect password."})
		return
	case err != nil:
		h.countUnlock("error")
		writeError(w, http.StatusInternalServerError, "Failed to read keystore")
		return
	}

	h.countUnlock("success")
	h.sessions.SetResult(token, model.WalletSessionResult{Status: model.TxStatusSuccess, Address: summary.Address})
	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

// ProvidePage handles GET /wallet/provide
// @Summary      Provide key page
// @Tags         wallet
// @Produce      html
// @Param        token  query  string  true   "Session token"
// @Param        api    query  string  false  "Broker origin"
// @Success      200
// @Failure      404
// @Router       /wallet/provide [get]
func (h *WalletHandler) ProvidePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	sess, ok := h.sessions.Get(token)
	if !ok || sess.Action != model.WalletActionProvide {
		h.pages.missing(w, "Session not found")
		return
	}

	h.pages.render(w, http.StatusOK, pageProvide, pageData{
		Title:     "Provide Private Key",
		Endpoint:  apiBase(r) + "/wallet/provide/" + token,
		ChainName: chainName(sess.Chain),
	})
}

// Provide handles POST /wallet/provide/{token}
// @Summary      Provide private key
// @Description  Activates a raw private key, optionally saving it encrypted. Balance figures are advisory.
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        token    path      string                true  "Session token"
// @Param        request  body      model.ProvideRequest  true  "Private key"
// @Success      200      {object}  model.ProvideResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallet/provide/{token} [post]
func (h *WalletHandler) Provide(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	token := r.PathValue("token")
	sess, ok := h.sessions.Get(token)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	var req model.ProvideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	address, err := chain.DeriveAddress(chain.FamilyOf(sess.Chain), req.PrivateKey)
	if err != nil {
		writeJSON(w, http.StatusOK, model.ProvideResponse{OK: false, Error: "Invalid private key format."})
		return
	}

	resp := model.ProvideResponse{OK: true}
	ctx, cancel := context.WithTimeout(r.Context(), balanceTimeout)
	bal, err := h.balances.Check(ctx, address, balance.TxContext{Chain: sess.Chain, GasLimit: provideGasLimit})
	cancel()
	if err != nil {
		log.Balance.Warn().Err(err).Str("chain", sess.Chain).Msg("balance check unavailable for provided key")
	} else {
		resp.InsufficientFunds = !bal.Sufficient
		resp.Balance = bal.FormatBalance()
		resp.Required = bal.FormatRequired()
		resp.Symbol = bal.Symbol
	}

	label := ""
	if req.Save {
		label = req.Label
	} else {
		clear(password)
		password = nil
	}
	if _, err := h.wallets.Import(sess.Chain, req.PrivateKey, label, password); err != nil {
		log.Keystore.Error().Err(err).Msg("failed to import provided key")
		writeError(w, http.StatusInternalServerError, "Failed to save wallet")
		return
	}

	h.sessions.SetResult(token, model.WalletSessionResult{Status: model.TxStatusSuccess, Address: address})
	writeJSON(w, http.StatusOK, resp)
}

// NewPage handles GET /wallet/new
// @Summary      New wallet page
// @Description  Shows the generated key for backup together with an address QR code
// @Tags         wallet
// @Produce      html
// @Param        token  query  string  true   "Session token"
// @Param        api    query  string  false  "Broker origin"
// @Success      200
// @Failure      404
// @Router       /wallet/new [get]
func (h *WalletHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	token := r.URL.Query().Get("token")
	sess, ok := h.sessions.Get(token)
	if !ok || sess.Action != model.WalletActionNew || sess.PrivateKeyTemp == "" || sess.Address == "" {
		h.pages.missing(w, "Session not found")
		return
	}

	qr, err := qrDataURL(sess.Address)
	if err != nil {
		log.Broker.Warn().Err(err).Msg("failed to render address QR code")
	}

	h.pages.render(w, http.StatusOK, pageNew, pageData{
		Title:      "New Wallet",
		Endpoint:   apiBase(r) + "/wallet/new/" + token + "/confirm",
		ChainName:  chainName(sess.Chain),
		Address:    sess.Address,
		PrivateKey: sess.PrivateKeyTemp,
		QRCode:     qr,
	})
}

// ConfirmNew handles POST /wallet/new/{token}/confirm
// @Summary      Confirm new wallet
// @Description  Saves the generated key once the user confirmed the backup, and makes it active
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        token    path      string                   true  "Session token"
// @Param        request  body      model.ConfirmNewRequest  true  "Backup confirmation"
// @Success      200      {object}  model.OKResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /wallet/new/{token}/confirm [post]
func (h *WalletHandler) ConfirmNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	token := r.PathValue("token")
	sess, ok := h.sessions.Get(token)
	if !ok || sess.PrivateKeyTemp == "" || sess.Address == "" {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	var req model.ConfirmNewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	password := []byte(req.Password)
	defer clear(password)

	if !req.Confirmed {
		writeJSON(w, http.StatusOK, model.OKResponse{OK: false, Error: "Backup not confirmed."})
		return
	}
	if req.Label == "" || len(password) == 0 {
		writeJSON(w, http.StatusOK, model.OKResponse{OK: false, Error: "Label and password are required."})
		return
	}

	if _, err := h.wallets.Save(sess.Chain, req.Label, sess.PrivateKeyTemp, sess.Address, password); err != nil {
		log.Keystore.Error().Err(err).Msg("failed to save new wallet")
		writeError(w, http.StatusInternalServerError, "Failed to save wallet")
		return
	}
	h.wallets.Registry().Set(chain.FamilyOf(sess.Chain), model.ActiveWallet{PrivateKey: sess.PrivateKeyTemp, Address: sess.Address})

	h.sessions.SetResult(token, model.WalletSessionResult{Status: model.TxStatusSuccess, Address: sess.Address})
	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

func (h *WalletHandler) countUnlock(result string) {
	if h.metrics != nil {
		h.metrics.UnlockAttempts.WithLabelValues(result).Inc()
	}
}

func chainName(caip2 string) string {
	if n, ok := chain.Lookup(caip2); ok {
		return n.Name
	}
	return caip2
}
