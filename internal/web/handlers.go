package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kdimtricp/cinescroll/internal/browse"
)

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// HomeHandler opens a new session and renders the page shell. Content
// arrives once the page connects to the event stream.
func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	session := s.NewSession()

	data := struct {
		Title     string
		SessionID string
		Ratings   []int
	}{
		Title:     appTitle,
		SessionID: session.ID,
		Ratings:   []int{1, 2, 3, 4, 5, 6, 7, 8, 9},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "page.html", data); err != nil {
		http.Error(w, "Error rendering template", http.StatusInternalServerError)
		return
	}
}

func (s *Server) EventsHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	session.Start()

	clientGone := r.Context().Done()
	updates := session.Events()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := update.writeTo(w); err != nil {
				s.logger.Printf("[WEB] Error writing %s event to session %s: %v", update.Type, session.ID, err)
				return
			}
			flusher.Flush()

		case <-clientGone:
			return
		}
	}
}

func (s *Server) SearchHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	session.Search(r.FormValue("q"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ToggleGenreHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	genreID, err := strconv.Atoi(chi.URLParam(r, "genreID"))
	if err != nil || genreID <= 0 {
		http.Error(w, "Invalid genre", http.StatusBadRequest)
		return
	}

	session.ToggleGenre(genreID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) RatingHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	floor, err := browse.ParseRating(r.FormValue("rating"))
	if err != nil {
		http.Error(w, "Invalid rating", http.StatusBadRequest)
		return
	}

	session.SetRating(floor)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) ClearHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	session.ClearFilters()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) MoreHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var sentinel int
	if v := r.FormValue("sentinel"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "Invalid sentinel", http.StatusBadRequest)
			return
		}
		sentinel = id
	}

	session.More(sentinel)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) DetailHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID <= 0 {
		http.Error(w, "Invalid movie", http.StatusBadRequest)
		return
	}

	session.OpenDetail(movieID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) CloseModalHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := s.lookup(w, r)
	if !ok {
		return
	}

	session.CloseDetail()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	session, ok := s.Session(chi.URLParam(r, "sessionID"))
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}
