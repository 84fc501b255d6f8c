package server

import (
	"context"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aria-hq/aria-protein-relay/internal/logger"
	"github.com/aria-hq/aria-protein-relay/internal/relay"
)

// Relay is the forwarding surface the HTTP handlers call into.
type Relay interface {
	FetchStructure(ctx context.Context, id string) (relay.Payload, error)
	SearchByGene(ctx context.Context, geneName string) (relay.Payload, error)
}

// Options configures the HTTP handler.
type Options struct {
	AllowedOrigins []string
	StaticDir      string
	Gatherer       prometheus.Gatherer
	Log            logger.Logger
}

// New constructs the HTTP handler for the relay.
func New(rl Relay, opts Options) http.Handler {
	log := logger.Ensure(opts.Log)
	h := &handlers{relay: rl, log: log}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(requestLogger(log))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"*"},
		}))
	}

	r.Get("/healthz", h.health)
	r.Route("/api", func(ar chi.Router) {
		ar.Get("/pdb/{id}", h.fetchStructure)
		ar.Get("/search/{name}", h.searchGene)
	})

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	if dir := opts.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(dir)))
		} else {
			log.WarnObj("static directory unavailable; viewer assets not served", "static_dir", dir)
		}
	}

	return r
}
