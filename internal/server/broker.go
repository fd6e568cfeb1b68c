// Package server runs the local HTTP broker on the first free loopback port.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/AlexZinkM/local-signer/internal/log"
)

// SweepInterval is how often expired sessions are evicted.
const SweepInterval = 5 * time.Minute

// ErrPortExhausted is returned when every port in the range is taken.
var ErrPortExhausted = errors.New("no free port in range")

// Sweeper evicts expired records and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// Broker owns the HTTP server. It is started lazily, at most once per process.
type Broker struct {
	handler   http.Handler
	portStart int
	portEnd   int
	sweepers  []Sweeper
	interval  time.Duration

	mu     sync.Mutex
	server *http.Server
	ln     net.Listener
	port   int
	stop   chan struct{}
	done   chan struct{}
}

// NewBroker creates a broker that will bind 127.0.0.1 on a port in
// [portStart, portEnd].
func NewBroker(handler http.Handler, portStart, portEnd int, sweepers ...Sweeper) *Broker {
	return &Broker{
		handler:   handler,
		portStart: portStart,
		portEnd:   portEnd,
		sweepers:  sweepers,
		interval:  SweepInterval,
	}
}

// Start binds the first free port and serves in the background. Later calls
// return the same port.
func (b *Broker) Start(ctx context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.server != nil {
		return b.port, nil
	}

	var lc net.ListenConfig
	for port := b.portStart; port <= b.portEnd; port++ {
		ln, err := lc.Listen(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			log.Broker.Debug().Int("port", port).Err(err).Msg("port unavailable")
			continue
		}

		b.server = &http.Server{
			Handler:           b.handler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		b.ln = ln
		b.port = port
		b.stop = make(chan struct{})
		b.done = make(chan struct{})

		go b.serve(b.server, ln)
		go b.janitor(b.stop, b.done)

		log.Broker.Info().Int("port", port).Msg("signing broker listening")
		return port, nil
	}

	return 0, fmt.Errorf("%w %d-%d", ErrPortExhausted, b.portStart, b.portEnd)
}

func (b *Broker) serve(srv *http.Server, ln net.Listener) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Broker.Error().Err(err).Msg("broker server error")
	}
}

func (b *Broker) janitor(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			b.sweep()
		}
	}
}

func (b *Broker) sweep() {
	n := 0
	for _, s := range b.sweepers {
		n += s.Sweep()
	}
	if n > 0 {
		log.Broker.Debug().Int("evicted", n).Msg("expired sessions swept")
	}
}

// Port returns the bound port, or 0 if the broker is not running.
func (b *Broker) Port() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.port
}

// Shutdown stops the server and the janitor. The broker can be started again.
func (b *Broker) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	srv, ln, stop, done := b.server, b.ln, b.stop, b.done
	b.server, b.ln, b.port, b.stop, b.done = nil, nil, 0, nil, nil
	b.mu.Unlock()

	if srv == nil {
		return nil
	}
	close(stop)
	<-done
	err := srv.Shutdown(ctx)
	// Serve may not have tracked ln yet, so Shutdown alone can leave it open.
	if cerr := ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
		err = cerr
	}
	return err
}

// Wait blocks until ctx is done, then shuts the broker down.
func (b *Broker) Wait(ctx context.Context) error {
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.Shutdown(shutdownCtx)
}
