// Package service wires the engine, verifier and HTTP API together and
// manages their lifecycle.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vocdoni/commit-reveal/api"
	"github.com/vocdoni/commit-reveal/engine"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/verifier"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// APIService represents a service that manages the HTTP API server.
type APIService struct {
	engine   *engine.Engine
	verifier *verifier.Verifier
	api      *api.API
	mu       sync.Mutex
	cancel   context.CancelFunc
	host     string
	port     int
}

// NewAPI creates a new APIService instance.
func NewAPI(eng *engine.Engine, vf *verifier.Verifier, host string, port int) *APIService {
	return &APIService{
		engine:   eng,
		verifier: vf,
		host:     host,
		port:     port,
	}
}

// Start begins the API server. It returns an error if the service
// is already running or if it fails to start.
func (as *APIService) Start(ctx context.Context) error {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		return fmt.Errorf("service already running")
	}

	var runCtx context.Context
	runCtx, as.cancel = context.WithCancel(ctx)

	var err error
	as.api, err = api.New(&api.APIConfig{
		Host:     as.host,
		Port:     as.port,
		Engine:   as.engine,
		Verifier: as.verifier,
	})
	if err != nil {
		as.cancel()
		as.cancel = nil
		return fmt.Errorf("failed to start API server: %w", err)
	}

	// stop serving when the parent context is cancelled
	apiServer := as.api
	go func() {
		<-runCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Warnw("API server shutdown failed", "error", err)
		}
	}()
	return nil
}

// Stop halts the API server and closes the underlying storage.
func (as *APIService) Stop() {
	as.mu.Lock()
	defer as.mu.Unlock()

	if as.cancel != nil {
		as.cancel()
		as.cancel = nil
	}
	if as.api != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := as.api.Shutdown(shutdownCtx); err != nil {
			log.Warnw("API server shutdown failed", "error", err)
		}
		as.api = nil
	}
	as.engine.Store().Close()
}

// Addr returns the listen address of the running API server, or an
// empty string when the service is stopped.
func (as *APIService) Addr() string {
	as.mu.Lock()
	defer as.mu.Unlock()
	if as.api == nil {
		return ""
	}
	return as.api.Addr()
}

// HostPort returns the host and port of the API server.
func (as *APIService) HostPort() (string, int) {
	return as.host, as.port
}
