package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlexZinkM/local-signer/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetOutput(io.Discard, "error")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// occupy binds a free loopback port and keeps it until the test ends.
func occupy(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().(*net.TCPAddr).Port
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestBroker_StartServesAndIsIdempotent(t *testing.T) {
	port := freePort(t)
	b := NewBroker(okHandler(), port, port)
	t.Cleanup(func() { _ = b.Shutdown(context.Background()) })

	got, err := b.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, port, got)
	assert.Equal(t, port, b.Port())

	again, err := b.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, got, again)

	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/", got))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))
}

func TestBroker_ConcurrentStartBindsOnce(t *testing.T) {
	port := freePort(t)
	b := NewBroker(okHandler(), port, port)
	t.Cleanup(func() { _ = b.Shutdown(context.Background()) })

	var wg sync.WaitGroup
	ports := make([]int, 8)
	errs := make([]error, 8)
	for i := range ports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ports[i], errs[i] = b.Start(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range ports {
		require.NoError(t, errs[i])
		assert.Equal(t, port, ports[i])
	}
}

func TestBroker_SkipsOccupiedPort(t *testing.T) {
	taken := occupy(t)
	b := NewBroker(okHandler(), taken, taken+1)
	t.Cleanup(func() { _ = b.Shutdown(context.Background()) })

	port, err := b.Start(context.Background())
	if err != nil {
		// taken+1 happened to be in use as well.
		require.ErrorIs(t, err, ErrPortExhausted)
		return
	}
	assert.Equal(t, taken+1, port)
}

func TestBroker_PortExhausted(t *testing.T) {
	taken := occupy(t)
	b := NewBroker(okHandler(), taken, taken)

	_, err := b.Start(context.Background())
	require.ErrorIs(t, err, ErrPortExhausted)
	assert.Zero(t, b.Port())
}

func TestBroker_ShutdownAllowsRestart(t *testing.T) {
	port := freePort(t)
	b := NewBroker(okHandler(), port, port)

	_, err := b.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, b.Shutdown(context.Background()))
	assert.Zero(t, b.Port())

	_, err = b.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, b.Shutdown(context.Background()))

	// Shutting down a stopped broker is a no-op.
	require.NoError(t, b.Shutdown(context.Background()))
}

func TestBroker_ShutdownReleasesPort(t *testing.T) {
	for i := 0; i < 20; i++ {
		port := freePort(t)
		b := NewBroker(okHandler(), port, port)

		_, err := b.Start(context.Background())
		require.NoError(t, err)
		require.NoError(t, b.Shutdown(context.Background()))

		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		require.NoError(t, err, "port %d still bound after shutdown", port)
		require.NoError(t, ln.Close())
	}
}

type countingSweeper struct{ calls atomic.Int32 }

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

func TestBroker_JanitorSweeps(t *testing.T) {
	port := freePort(t)
	sw := &countingSweeper{}
	b := NewBroker(okHandler(), port, port, sw)
	b.interval = 10 * time.Millisecond
	t.Cleanup(func() { _ = b.Shutdown(context.Background()) })

	_, err := b.Start(context.Background())
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return sw.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}
