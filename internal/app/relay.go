package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aria-hq/aria-protein-relay/internal/config"
	"github.com/aria-hq/aria-protein-relay/internal/logger"
	"github.com/aria-hq/aria-protein-relay/internal/metrics"
	"github.com/aria-hq/aria-protein-relay/internal/relay"
	"github.com/aria-hq/aria-protein-relay/internal/server"
	"github.com/aria-hq/aria-protein-relay/pkg/httpclient"
	"github.com/aria-hq/aria-protein-relay/pkg/upstreams"
)

// Relay represents the relay runtime. It owns the HTTP server and shuts it
// down when the run context is cancelled.
type Relay struct {
	cfg    *config.Config
	server *http.Server
	log    logger.Logger
}

// NewRelay builds a relay runtime from config.
func NewRelay(cfg *config.Config, log logger.Logger) (*Relay, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	upstreamReg, err := upstreams.LoadRegistry(cfg.UpstreamsFile)
	if err != nil {
		return nil, fmt.Errorf("load upstreams registry: %w", err)
	}
	upstreamSummaries := make([]map[string]string, 0, 2)
	for _, u := range upstreamReg.All() {
		upstreamSummaries = append(upstreamSummaries, map[string]string{
			"id":       u.ID,
			"base_url": u.BaseURL,
		})
	}
	log.InfoObj("upstreams registry loaded", "upstreams_meta", map[string]any{
		"file":      cfg.UpstreamsFile,
		"upstreams": upstreamSummaries,
	})

	preg := prometheus.NewRegistry()
	preg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := httpclient.NewRestyClient(cfg.UpstreamTimeout)
	svc, err := relay.NewService(client, upstreamReg, metrics.NewRelay(preg), log)
	if err != nil {
		return nil, fmt.Errorf("init relay service: %w", err)
	}

	handler := server.New(svc, server.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:      cfg.StaticDir,
		Gatherer:       preg,
		Log:            log,
	})

	return &Relay{
		cfg: cfg,
		server: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (r *Relay) Run(ctx context.Context) error {
	if r == nil || r.server == nil {
		return fmt.Errorf("relay is not initialized")
	}

	errCh := make(chan error, 1)
	go func() {
		r.log.InfoObj("relay listening", "relay_state", map[string]any{
			"addr":             r.server.Addr,
			"static_dir":       r.cfg.StaticDir,
			"upstream_timeout": r.cfg.UpstreamTimeout.String(),
		})
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		r.log.InfoObj("relay shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), r.cfg.ShutdownTimeout)
	defer cancel()
	if err := r.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
