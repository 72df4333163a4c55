package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.HomeHandler)
	r.Get("/ping", PingHandler)

	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/events", s.EventsHandler)
		r.Post("/search", s.SearchHandler)
		r.Post("/genres/{genreID}/toggle", s.ToggleGenreHandler)
		r.Post("/rating", s.RatingHandler)
		r.Post("/clear", s.ClearHandler)
		r.Post("/more", s.MoreHandler)
		r.Post("/movies/{movieID}", s.DetailHandler)
		r.Post("/modal/close", s.CloseModalHandler)
	})

	return r
}
