/*
Package gateway provides read-only HTTP access to the Subscription contract.

Routes:

	GET /config                              creator config
	GET /subscriptions/{subscriber}          subscription with computed status
	GET /addresses/config                    canonical config record address
	GET /addresses/subscriptions/{subscriber} canonical subscription record address
	GET /metrics                             Prometheus metrics
	GET /healthz                             liveness probe

Subscriber is either Neo address or LE hex script hash. Missing records are
reported with 404 and {"status":"absent"} body.

Creator config is cached, so price updates become visible after the cache TTL
at most. Subscriptions change on every pause, resume, extend and cancel and
are always read from the chain.
*/
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/subscription-contract/rpc/subscription"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Reader reads records of the contract. *subscription.ContractReader
// implements it.
type Reader interface {
	GetConfig() (*subscription.CreatorConfig, error)
	GetSubscription(subscriber util.Uint160) (*subscription.Subscription, error)
}

// Prm groups Gateway parameters.
type Prm struct {
	Logger *zap.Logger

	Reader Reader
	// Contract is a script hash of the contract Reader reads. It's used to
	// derive record addresses.
	Contract util.Uint160

	// Creator config is cached for CacheTTL.
	CacheTTL time.Duration

	AllowedOrigins []string

	// Registry collects gateway metrics, new one is used when nil.
	Registry *prometheus.Registry

	// Now returns current time used to compute subscription status,
	// time.Now by default.
	Now func() time.Time
}

// Gateway serves contract records over HTTP.
type Gateway struct {
	log      *zap.Logger
	reader   Reader
	contract util.Uint160
	now      func() time.Time

	configs *expirable.LRU[struct{}, *subscription.CreatorConfig]

	metrics *metrics
	router  chi.Router
}

// New creates Gateway.
func New(prm Prm) (*Gateway, error) {
	if prm.Reader == nil {
		return nil, errors.New("missing contract reader")
	}
	if prm.CacheTTL <= 0 {
		return nil, fmt.Errorf("invalid cache TTL %s", prm.CacheTTL)
	}

	if prm.Logger == nil {
		prm.Logger = zap.NewNop()
	}
	if prm.Registry == nil {
		prm.Registry = prometheus.NewRegistry()
	}
	if prm.Now == nil {
		prm.Now = time.Now
	}

	m, err := newMetrics(prm.Registry)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	g := &Gateway{
		log:      prm.Logger,
		reader:   prm.Reader,
		contract: prm.Contract,
		now:      prm.Now,
		configs:  expirable.NewLRU[struct{}, *subscription.CreatorConfig](1, nil, prm.CacheTTL),
		metrics:  m,
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: prm.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(prm.Registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(m.middleware)

		r.Get("/config", g.getConfig)
		r.Get("/subscriptions/{subscriber}", g.getSubscription)
		r.Get("/addresses/config", g.getConfigAddress)
		r.Get("/addresses/subscriptions/{subscriber}", g.getSubscriptionAddress)
	})

	g.router = r

	return g, nil
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

// ListenAndServe serves HTTP requests on the given address until ctx is
// done. Then the server is shut down gracefully.
func (g *Gateway) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           g,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		g.log.Info("serving HTTP gateway", zap.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	g.log.Info("shutting down HTTP gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	if err = <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (g *Gateway) config() (*subscription.CreatorConfig, error) {
	c, ok := g.configs.Get(struct{}{})
	g.metrics.cacheHit(ok)
	if ok {
		return c, nil
	}

	c, err := g.reader.GetConfig()
	if err != nil {
		g.metrics.rpcErrors.Inc()
		return nil, err
	}

	// Config is created once, absence is not cached.
	if c != nil {
		g.configs.Add(struct{}{}, c)
	}

	return c, nil
}

func (g *Gateway) subscription(subscriber util.Uint160) (*subscription.Subscription, error) {
	s, err := g.reader.GetSubscription(subscriber)
	if err != nil {
		g.metrics.rpcErrors.Inc()
		return nil, err
	}

	return s, nil
}
