package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with the timeouts the UI-facing API needs. The write
// timeout covers the slowest consent response path (backend + on-chain receipt).
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}
