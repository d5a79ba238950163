package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vocdoni/commit-reveal/engine"
	"github.com/vocdoni/commit-reveal/log"
	"github.com/vocdoni/commit-reveal/storage"
	"github.com/vocdoni/commit-reveal/verifier"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// APIConfig type represents the configuration for the API HTTP server.
// It includes the host, port and the engine and verifier instances.
type APIConfig struct {
	Host     string
	Port     int
	Engine   *engine.Engine
	Verifier *verifier.Verifier
}

// API type represents the API HTTP server.
type API struct {
	router   *chi.Mux
	engine   *engine.Engine
	verifier *verifier.Verifier
	server   *http.Server
	addr     string
}

// New creates a new API instance with the given configuration.
// It also initializes the router and starts the HTTP server.
func New(conf *APIConfig) (*API, error) {
	if conf == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	if conf.Engine == nil {
		return nil, fmt.Errorf("missing engine instance")
	}
	if conf.Verifier == nil {
		return nil, fmt.Errorf("missing verifier instance")
	}
	a := &API{
		engine:   conf.Engine,
		verifier: conf.Verifier,
	}

	// Initialize router
	a.initRouter()
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", conf.Host, conf.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to bind the API listener: %w", err)
	}
	a.addr = ln.Addr().String()
	a.server = &http.Server{Handler: a.router}
	go func() {
		log.Infow("Starting API server", "address", a.addr)
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
	return a, nil
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests until the context expires. It is a no-op for an API created
// without a listener.
func (a *API) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Addr returns the address the API server is listening on.
func (a *API) Addr() string {
	return a.addr
}

// NewRouter creates an API instance without binding a listener. Used by
// tests that mount the router on their own server.
func NewRouter(conf *APIConfig) (*API, error) {
	if conf == nil || conf.Engine == nil || conf.Verifier == nil {
		return nil, fmt.Errorf("missing API configuration")
	}
	a := &API{
		engine:   conf.Engine,
		verifier: conf.Verifier,
	}
	a.initRouter()
	return a, nil
}

// Router returns the chi router for testing purposes
func (a *API) Router() *chi.Mux {
	return a.router
}

// registerHandlers registers all the API handlers.
func (a *API) registerHandlers() {
	log.Infow("register handler", "endpoint", HealthEndpoint, "method", "GET")
	a.router.Get(HealthEndpoint, a.health)
	log.Infow("register handler", "endpoint", VotesEndpoint, "method", "POST")
	a.router.Post(VotesEndpoint, a.createVote)
	log.Infow("register handler", "endpoint", VotesEndpoint, "method", "GET")
	a.router.Get(VotesEndpoint, a.listVotes)
	log.Infow("register handler", "endpoint", VoteEndpoint, "method", "GET")
	a.router.Get(VoteEndpoint, a.vote)
	log.Infow("register handler", "endpoint", CommitEndpoint, "method", "POST")
	a.router.Post(CommitEndpoint, a.commit)
	log.Infow("register handler", "endpoint", RevealEndpoint, "method", "POST")
	a.router.Post(RevealEndpoint, a.reveal)
	log.Infow("register handler", "endpoint", ResultsEndpoint, "method", "GET")
	a.router.Get(ResultsEndpoint, a.results)
	log.Infow("register handler", "endpoint", VerifyEndpoint, "method", "GET")
	a.router.Get(VerifyEndpoint, a.verify)
	log.Infow("register handler", "endpoint", CancelEndpoint, "method", "POST")
	a.router.Post(CancelEndpoint, a.cancel)
	log.Infow("register handler", "endpoint", TemplatesEndpoint, "method", "GET")
	a.router.Get(TemplatesEndpoint, a.templates)
	log.Infow("register handler", "endpoint", TemplateEndpoint, "method", "GET")
	a.router.Get(TemplateEndpoint, a.template)
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() {
	// Create the router with a basic middleware stack
	a.router = chi.NewRouter()
	a.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Throttle(100))
	a.router.Use(middleware.ThrottleBacklog(5000, 40000, 60*time.Second))
	a.router.Use(middleware.Timeout(45 * time.Second))

	// Register the API handlers
	a.registerHandlers()
}

// health reports the service status and probes the storage layer.
// GET /health
func (a *API) health(w http.ResponseWriter, _ *http.Request) {
	services := map[string]string{
		"engine":  "ok",
		"storage": "ok",
	}
	status := "ok"
	// a lookup of a known-absent key exercises the full storage path
	if _, err := a.engine.Store().Vote("health-probe"); err != nil && !errors.Is(err, storage.ErrNotFound) {
		services["storage"] = err.Error()
		status = "degraded"
	}
	httpWriteJSON(w, &HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Services:  services,
	})
}
