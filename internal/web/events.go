package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log"
	"slices"
	"strings"
	"sync"

	"github.com/kdimtricp/cinescroll/internal/browse"
	"github.com/kdimtricp/cinescroll/internal/models"
)

// SSE event names. Each maps to an sse-swap target on the page.
const (
	EventMovies       = "movies"
	EventMoviesAppend = "movies-append"
	EventGenres       = "genres"
	EventLoading      = "loading"
	EventStatus       = "status"
	EventModal        = "modal"
)

const eventBuffer = 100

type Event struct {
	Type string
	Data string
}

// writeTo writes the event in text/event-stream framing. Multi-line data is
// split into one data field per line.
func (e Event) writeTo(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", e.Type)
	for _, line := range strings.Split(e.Data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// eventSink implements browse.Renderer by rendering HTML fragments and
// queueing them for the session's event stream.
type eventSink struct {
	sessionID string
	templates *template.Template
	logger    *log.Logger
	updates   chan Event

	mu       sync.Mutex
	closed   bool
	genres   []models.Genre
	selected map[int]bool
}

var _ browse.Renderer = (*eventSink)(nil)

func newEventSink(sessionID string, templates *template.Template, logger *log.Logger) *eventSink {
	return &eventSink{
		sessionID: sessionID,
		templates: templates,
		logger:    logger,
		updates:   make(chan Event, eventBuffer),
		selected:  make(map[int]bool),
	}
}

func (s *eventSink) Updates() <-chan Event {
	return s.updates
}

func (s *eventSink) RenderMovies(movies []models.Movie, replace bool) {
	data := struct {
		SessionID string
		Sentinel  int
		Movies    []models.Movie
	}{
		SessionID: s.sessionID,
		Movies:    movies,
	}
	if len(movies) > 0 {
		data.Sentinel = movies[len(movies)-1].ID
	}

	if replace {
		s.emit(EventStatus, "status", "")
		s.emit(EventMovies, "movies", data)
		return
	}
	s.emit(EventMoviesAppend, "movies", data)
}

func (s *eventSink) RenderGenres(genres []models.Genre) {
	s.mu.Lock()
	s.genres = slices.Clone(genres)
	s.mu.Unlock()
	s.emitGenres()
}

func (s *eventSink) HighlightGenres(selected []int) {
	s.mu.Lock()
	s.selected = make(map[int]bool, len(selected))
	for _, id := range selected {
		s.selected[id] = true
	}
	s.mu.Unlock()
	s.emitGenres()
}

func (s *eventSink) ShowLoading(loading bool) {
	s.emit(EventLoading, "loading", loading)
}

func (s *eventSink) ShowError(message string) {
	s.emit(EventStatus, "status", message)
}

func (s *eventSink) ShowEmptyState() {
	s.emit(EventStatus, "status", "")
	s.emit(EventMovies, "empty", nil)
}

func (s *eventSink) OpenDetailModal(view browse.DetailView) {
	s.emit(EventModal, "modal", struct {
		SessionID string
		View      browse.DetailView
	}{
		SessionID: s.sessionID,
		View:      view,
	})
}

func (s *eventSink) CloseModal() {
	s.emit(EventModal, "modal", nil)
}

func (s *eventSink) emitGenres() {
	s.mu.Lock()
	data := struct {
		SessionID string
		Genres    []models.Genre
		Selected  map[int]bool
	}{
		SessionID: s.sessionID,
		Genres:    s.genres,
		Selected:  s.selected,
	}
	var buf bytes.Buffer
	err := s.templates.ExecuteTemplate(&buf, "genres", data)
	s.mu.Unlock()

	if err != nil {
		s.logger.Printf("[WEB] Error rendering genres for session %s: %v", s.sessionID, err)
		return
	}
	s.send(Event{Type: EventGenres, Data: buf.String()})
}

func (s *eventSink) emit(eventType, tmpl string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		s.logger.Printf("[WEB] Error rendering %s for session %s: %v", tmpl, s.sessionID, err)
		return
	}
	s.send(Event{Type: eventType, Data: buf.String()})
}

// send never blocks the caller. A full buffer means no client is reading.
func (s *eventSink) send(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.updates <- e:
	default:
		s.logger.Printf("[WEB] Event buffer full for session %s, dropping %s", s.sessionID, e.Type)
	}
}

func (s *eventSink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.updates)
	}
}
