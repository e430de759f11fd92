package web

import (
	"net/http"

	"grove/internal/web/controller"
	"grove/internal/web/middleware"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", StaticFileServer()))

	pageController := controller.Page{
		Service:   s.service,
		Renderer:  s.renderer,
		Templates: s.templates,
		Flash:     s.flash,
		Log:       s.log,
	}
	pageController.Register(mux)

	miscController := controller.Misc{Renderer: s.renderer, Log: s.log}
	miscController.Register(mux)

	mux.HandleFunc("/", pageController.NotFound)

	return middleware.Logger(s.log)(middleware.Recover(s.log)(mux))
}
