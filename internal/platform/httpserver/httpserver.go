package httpserver

import (
	"context"
	"net/http"
	"time"
)

// shutdownTimeout bounds how long in-flight alert dispatches may delay a
// graceful stop.
const shutdownTimeout = 10 * time.Second

// New builds the HTTP server for the alert API. ReadHeaderTimeout guards
// against slow-header clients holding registration connections open.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Shutdown stops the server gracefully, waiting at most shutdownTimeout for
// in-flight requests to finish.
func Shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
