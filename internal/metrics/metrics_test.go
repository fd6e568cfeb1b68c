package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.SessionsOpened.WithLabelValues("tx").Inc()
	m.SessionsOpened.WithLabelValues("tx").Inc()
	m.UnlockAttempts.WithLabelValues("wrong_password").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SessionsOpened.WithLabelValues("tx")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `signer_sessions_opened_total{kind="tx"} 2`)
	assert.Contains(t, string(body), `signer_unlock_attempts_total{result="wrong_password"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()
	a.Resolutions.WithLabelValues("ready").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Resolutions.WithLabelValues("ready")))
}
