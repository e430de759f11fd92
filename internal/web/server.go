package web

import (
	"html/template"
	"log/slog"
	"net/http"

	"grove/internal/page"
	"grove/internal/web/flash"
	"grove/internal/web/renderer"
)

// Server holds the dependencies for the web server.
type Server struct {
	service   *page.Service
	renderer  renderer.Renderer
	templates map[string]*template.Template
	flash     *flash.Store
	log       *slog.Logger
	handler   http.Handler
}

// NewServer creates a new server with the given dependencies.
func NewServer(service *page.Service, r renderer.Renderer, templates map[string]*template.Template, flashes *flash.Store, log *slog.Logger) *Server {
	s := &Server{
		service:   service,
		renderer:  r,
		templates: templates,
		flash:     flashes,
		log:       log,
	}
	s.handler = s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
