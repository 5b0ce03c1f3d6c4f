package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aqualert/internal/platform/middleware"
)

// Registrar is implemented by feature handlers that mount routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires the public surface: feature routes behind the standard
// middleware chain, plus /healthz and /metrics outside it.
func NewRouter(logger *slog.Logger, handlers ...Registrar) http.Handler {
	root := chi.NewRouter()

	root.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	root.Method(http.MethodGet, "/metrics", promhttp.Handler())

	api := chi.NewRouter()
	api.Use(middleware.Recovery(logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(logger))
	api.Use(middleware.Timeout(30 * time.Second))
	api.Use(middleware.ContentTypeJSON)
	for _, h := range handlers {
		h.Register(api)
	}
	root.Mount("/", api)

	return root
}
