package tui

import (
	"log"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kdimtricp/cinescroll/internal/browse"
	"github.com/kdimtricp/cinescroll/internal/models"
)

const queueSize = 256

// Messages delivered to the model. One per render instruction.
type (
	moviesMsg struct {
		movies  []models.Movie
		replace bool
	}
	genresMsg     struct{ genres []models.Genre }
	highlightMsg  struct{ selected []int }
	loadingMsg    struct{ loading bool }
	errorMsg      struct{ message string }
	emptyMsg      struct{}
	modalMsg      struct{ view browse.DetailView }
	closeModalMsg struct{}
)

type Sender interface {
	Send(msg tea.Msg)
}

// Renderer implements browse.Renderer for a bubbletea program. Calls are
// queued and forwarded in order by a single goroutine, so a render issued
// from inside Update never blocks on the program's event loop.
type Renderer struct {
	logger *log.Logger
	queue  chan tea.Msg

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

var _ browse.Renderer = (*Renderer)(nil)

func NewRenderer(logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.Default()
	}
	return &Renderer{
		logger: logger,
		queue:  make(chan tea.Msg, queueSize),
		done:   make(chan struct{}),
	}
}

// Attach starts forwarding queued messages to the program.
func (r *Renderer) Attach(s Sender) {
	go func() {
		defer close(r.done)
		for msg := range r.queue {
			s.Send(msg)
		}
	}()
}

// Close stops accepting messages and waits for the queue to drain. It must
// only be called after Attach.
func (r *Renderer) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	<-r.done
}

func (r *Renderer) RenderMovies(movies []models.Movie, replace bool) {
	r.post(moviesMsg{movies: slices.Clone(movies), replace: replace})
}

func (r *Renderer) RenderGenres(genres []models.Genre) {
	r.post(genresMsg{genres: slices.Clone(genres)})
}

func (r *Renderer) HighlightGenres(selected []int) {
	r.post(highlightMsg{selected: slices.Clone(selected)})
}

func (r *Renderer) ShowLoading(loading bool) {
	r.post(loadingMsg{loading: loading})
}

func (r *Renderer) ShowError(message string) {
	r.post(errorMsg{message: message})
}

func (r *Renderer) ShowEmptyState() {
	r.post(emptyMsg{})
}

func (r *Renderer) OpenDetailModal(view browse.DetailView) {
	r.post(modalMsg{view: view})
}

func (r *Renderer) CloseModal() {
	r.post(closeModalMsg{})
}

func (r *Renderer) post(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	select {
	case r.queue <- msg:
	default:
		r.logger.Printf("[TUI] Render queue full, dropping %T", msg)
	}
}
