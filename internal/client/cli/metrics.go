package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsHandler exposes the pipeline collectors.
func (a *App) metricsHandler() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return r
}

// serveMetrics runs the metrics endpoint until ctx is done.
func (a *App) serveMetrics(ctx context.Context, addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.metricsHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	a.log.Info(ctx, "metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.log.Error(ctx, "metrics endpoint stopped", "error", err)
	}
}
