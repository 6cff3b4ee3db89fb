package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer is a thin wrapper over http.Server carrying the studio API.
// Timeouts come from Config; the generous write timeout covers long video
// generations that stream back through a single response.
type HTTPServer struct {
	server *http.Server
}

// NewHTTPServer builds the server for the given handler.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{server: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
