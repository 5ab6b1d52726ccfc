// Package server assembles the HTTP handler tree: Connect services, health and metrics.
package server

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/receiptsplit/internal/metrics"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// Options configures the router.
type Options struct {
	CORSOrigins []string
	RateLimiter *middleware.KeyedRateLimiter // nil disables rate limiting
	Metrics     *metrics.Metrics
}

// New builds the router serving the bill service, /healthz and /metrics.
func New(svc api.BillServiceHandler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	// Outermost first: rejected calls are still logged and counted.
	var interceptors []connect.Interceptor
	interceptors = append(interceptors, middleware.LoggingInterceptor())
	if opts.Metrics != nil {
		interceptors = append(interceptors, middleware.MetricsInterceptor(opts.Metrics))
	}
	if opts.RateLimiter != nil {
		interceptors = append(interceptors, middleware.RateLimitInterceptor(opts.RateLimiter, opts.Metrics))
	}

	path, handler := api.NewBillServiceHandler(svc, connect.WithInterceptors(interceptors...))
	r.Mount(path, handler)

	return r
}

// H2C wraps h so HTTP/2 works without TLS, which gRPC clients require.
func H2C(h http.Handler) http.Handler {
	return h2c.NewHandler(h, &http2.Server{})
}
