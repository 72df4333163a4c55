package web

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kdimtricp/cinescroll/internal/browse"
)

// Session is one open browser page: its own filter state, pagination and
// event stream.
type Session struct {
	ID        string
	CreatedAt time.Time

	events  *eventSink
	browser *browse.Orchestrator
	detail  *browse.DetailLoader
	search  *browse.Debouncer[string]
	timeout time.Duration
	logger  *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	closeOnce sync.Once
}

func newSession(catalog browse.Catalog, templates *template.Template, opts Options) *Session {
	id := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		events:    newEventSink(id, templates, opts.Logger),
		timeout:   opts.RequestTimeout,
		logger:    opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}

	browseOpts := []browse.Option{
		browse.WithLogger(opts.Logger),
		browse.WithRequestTimeout(opts.RequestTimeout),
		browse.WithStaleGuard(opts.StaleGuard),
	}
	s.browser = browse.New(catalog, s.events, browseOpts...)
	s.detail = browse.NewDetailLoader(catalog, s.events, browseOpts...)
	s.search = browse.NewDebouncer(opts.SearchDebounce, func(text string) {
		s.browser.SetSearch(text)
	})

	return s
}

// Start loads genres and the first page in the background. Only the first
// call has an effect.
func (s *Session) Start() {
	s.startOnce.Do(func() {
		go func() {
			ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
			defer cancel()
			s.browser.Start(ctx)
		}()
	})
}

func (s *Session) Search(text string) {
	s.search.Schedule(text)
}

func (s *Session) ToggleGenre(genreID int) {
	s.browser.ToggleGenre(genreID)
}

func (s *Session) SetRating(floor *float64) {
	s.browser.SetRating(floor)
}

// ClearFilters also drops a search that is still waiting out its debounce,
// so it cannot resurrect the cleared text.
func (s *Session) ClearFilters() {
	s.search.Cancel()
	s.browser.ClearFilters()
}

// More handles a sentinel report. A zero sentinel asks for the next page
// unconditionally.
func (s *Session) More(sentinel int) bool {
	if sentinel == 0 {
		return s.browser.ScrollMore()
	}
	return s.browser.SentinelReached(sentinel)
}

func (s *Session) OpenDetail(movieID int) {
	s.detail.Open(movieID)
}

func (s *Session) CloseDetail() {
	s.detail.CloseModal()
}

func (s *Session) Events() <-chan Event {
	return s.events.Updates()
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.search.Stop()
		s.cancel()
		s.browser.Close()
		s.detail.Close()
		s.events.close()
		s.logger.Printf("[WEB] Closed session %s after %s", s.ID, time.Since(s.CreatedAt).Round(time.Second))
	})
}

// SessionStore keeps the most recently used sessions. The least recently
// used one is closed when the store is full.
type SessionStore struct {
	cache  *lru.Cache[string, *Session]
	logger *log.Logger
}

func NewSessionStore(size int, logger *log.Logger) (*SessionStore, error) {
	store := &SessionStore{logger: logger}
	cache, err := lru.NewWithEvict(size, func(id string, s *Session) {
		store.logger.Printf("[WEB] Evicting session %s", id)
		s.Close()
	})
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}
	store.cache = cache
	return store, nil
}

func (st *SessionStore) Add(s *Session) {
	st.cache.Add(s.ID, s)
}

func (st *SessionStore) Get(id string) (*Session, bool) {
	return st.cache.Get(id)
}

func (st *SessionStore) Len() int {
	return st.cache.Len()
}

// Close closes every session.
func (st *SessionStore) Close() {
	st.cache.Purge()
}
