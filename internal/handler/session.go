// Package handler implements the HTTP endpoints of the local signing broker.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/AlexZinkM/local-signer/internal/log"
	"github.com/AlexZinkM/local-signer/internal/metrics"
	"github.com/AlexZinkM/local-signer/internal/model"
	"github.com/AlexZinkM/local-signer/internal/session"
)

// SessionHandler serves signing sessions to the web signer.
type SessionHandler struct {
	sessions *session.TxStore
	metrics  *metrics.Metrics
}

// NewSessionHandler creates a SessionHandler. m may be nil.
func NewSessionHandler(sessions *session.TxStore, m *metrics.Metrics) *SessionHandler {
	return &SessionHandler{sessions: sessions, metrics: m}
}

// Health handles GET /health
// @Summary      Liveness check
// @Tags         broker
// @Produce      json
// @Success      200  {object}  model.OKResponse
// @Router       /health [get]
func (h *SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}

// Create handles POST /sessions
// @Summary      Create signing session
// @Description  Stores an unsigned transaction for 30 minutes and returns its token
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateSessionRequest  true  "Unsigned transaction"
// @Success      201      {object}  model.CreateSessionResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := h.sessions.Create(req)
	if h.metrics != nil {
		h.metrics.SessionsOpened.WithLabelValues("tx").Inc()
	}
	log.Broker.Info().Str("chain_type", string(sess.ChainType)).Str("token_id", sess.TokenID).Msg("signing session created")

	writeJSON(w, http.StatusCreated, model.CreateSessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
}

// Get handles GET /sessions/{token}
// @Summary      Get signing session
// @Tags         sessions
// @Produce      json
// @Param        token  path      string  true  "Session token"
// @Success      200    {object}  model.TxSession
// @Failure      404    {object}  model.ErrorResponse
// @Failure      410    {object}  model.ErrorResponse
// @Router       /sessions/{token} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	sess, err := h.sessions.Lookup(r.PathValue("token"))
	switch {
	case errors.Is(err, session.ErrExpired):
		writeError(w, http.StatusGone, "Session expired")
		return
	case err != nil:
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// PutResult handles PUT /sessions/{token}/result
// @Summary      Record signing result
// @Description  Called by the web signer once the transaction was signed or failed. Last write wins.
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        token    path      string          true  "Session token"
// @Param        request  body      model.TxResult  true  "Signing result"
// @Success      200      {object}  model.OKResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /sessions/{token}/result [put]
func (h *SessionHandler) PutResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed. Should be PUT", http.StatusMethodNotAllowed)
		return
	}

	var result model.TxResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := result.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token := r.PathValue("token")
	if !h.sessions.SetResult(token, result) {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}
	log.Broker.Info().Str("status", string(result.Status)).Str("tx_hash", result.TxHash).Str("signature", result.Signature).Msg("signing result recorded")

	writeJSON(w, http.StatusOK, model.OKResponse{OK: true})
}
