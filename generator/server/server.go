// Package server serves a site during development. The site is rendered on every request, so
// changes show up as soon as the site is reloaded.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/kamioftea/advent-of-code-2025/pubs/generator/site"
)

// Server serves a single site via HTTP.
type Server struct {
	http    *http.Server
	handler *handler
	addr    net.Addr
	errc    chan error
}

// Run creates a new server and runs it in a new goroutine. The site is served below its path
// prefix.
func Run(addr string, s *site.Site) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("starting HTTP server: %v", err)
	}

	h := newHandler(s)
	srv := &Server{
		http: &http.Server{
			Handler: h,
		},
		handler: h,
		addr:    l.Addr(),
		errc:    make(chan error, 1),
	}

	go func() {
		if err := srv.http.Serve(l); err != nil && err != http.ErrServerClosed {
			srv.errc <- err
		}
	}()

	return srv, nil
}

// URL returns the URL of the root of the served site.
func (s *Server) URL() string {
	return "http://" + s.addr.String() + s.handler.site.Load().Config().PathPrefix + "/"
}

// ReplaceSite replaces the site to serve with the one provided.
func (s *Server) ReplaceSite(site *site.Site) {
	s.handler.site.Store(site)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %v", err)
	}
	return nil
}

// Error returns a channel to listen to errors while serving.
func (s *Server) Error() <-chan error {
	return s.errc
}
