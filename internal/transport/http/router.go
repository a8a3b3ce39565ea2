// Package httptransport is the JSON API the marketplace UI talks to. Handlers are
// thin: they decode, call one service method and encode the result.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketaccess/internal/events"
	"marketaccess/internal/platform/metrics"
	"marketaccess/pkg/platform/httputil"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig carries what the router needs besides the handlers.
type RouterConfig struct {
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Notifications Notifications
	// Checks back GET /readyz; each must return nil for the service to be ready.
	Checks map[string]func(context.Context) error
}

// NewRouter builds the API with the common middleware chain.
func NewRouter(cfg RouterConfig, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestMetadata)
	r.Use(Recovery(cfg.Logger))
	r.Use(AccessLog(cfg.Logger, cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		failed := map[string]string{}
		for name, check := range cfg.Checks {
			if err := check(req.Context()); err != nil {
				cfg.Logger.WarnContext(req.Context(), "readiness check failed", "check", name, "error", err)
				failed[name] = "unavailable"
			}
		}
		if len(failed) > 0 {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "checks": failed})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	if cfg.Notifications != nil {
		r.Get("/notifications", func(w http.ResponseWriter, _ *http.Request) {
			out := cfg.Notifications.Drain()
			if out == nil {
				out = []events.Notification{}
			}
			httputil.WriteJSON(w, http.StatusOK, out)
		})
	}
	for _, h := range handlers {
		h.Register(r)
	}
	return r
}
