// Package web serves the browsing UI over HTTP. Each page load gets its own
// session; user actions are posted back and every render instruction is
// streamed to the page as a server-sent event carrying an HTML fragment.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/kdimtricp/cinescroll/internal/browse"
)

//go:embed templates/*.html
var templateFS embed.FS

const appTitle = "CineScroll"

type Options struct {
	SearchDebounce time.Duration
	RequestTimeout time.Duration
	MaxSessions    int
	StaleGuard     bool
	Logger         *log.Logger
}

func (o *Options) setDefaults() {
	if o.SearchDebounce <= 0 {
		o.SearchDebounce = 500 * time.Millisecond
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 15 * time.Second
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = 256
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
}

type Server struct {
	catalog   browse.Catalog
	sessions  *SessionStore
	templates *template.Template
	opts      Options
	logger    *log.Logger
}

func NewServer(catalog browse.Catalog, opts Options) (*Server, error) {
	opts.setDefaults()

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	sessions, err := NewSessionStore(opts.MaxSessions, opts.Logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		catalog:   catalog,
		sessions:  sessions,
		templates: templates,
		opts:      opts,
		logger:    opts.Logger,
	}, nil
}

func (s *Server) NewSession() *Session {
	session := newSession(s.catalog, s.templates, s.opts)
	s.sessions.Add(session)
	s.logger.Printf("[WEB] Created session %s (%d open)", session.ID, s.sessions.Len())
	return session
}

func (s *Server) Session(id string) (*Session, bool) {
	return s.sessions.Get(id)
}

// Close shuts down every open session.
func (s *Server) Close() {
	s.sessions.Close()
}
