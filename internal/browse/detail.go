package browse

import (
	"context"
	"log"
	"time"

	"github.com/sourcegraph/conc"
)

// DetailLoader fetches one movie's extended record for the modal. It has no
// in-flight guard of its own and may overlap with a list fetch; both share the
// renderer's single loading cue.
type DetailLoader struct {
	catalog  Catalog
	renderer Renderer
	logger   *log.Logger
	timeout  time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup
}

func NewDetailLoader(catalog Catalog, renderer Renderer, opts ...Option) *DetailLoader {
	s := newSettings(opts)
	ctx, cancel := context.WithCancel(context.Background())

	return &DetailLoader{
		catalog:  catalog,
		renderer: renderer,
		logger:   s.logger,
		timeout:  s.timeout,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Open loads the detail in the background and opens the modal when done.
func (l *DetailLoader) Open(movieID int) {
	l.wg.Go(func() {
		ctx, cancel := context.WithTimeout(l.ctx, l.timeout)
		defer cancel()
		l.Load(ctx, movieID)
	})
}

// Load fetches the detail and opens the modal. A failed fetch still opens
// the modal, with an error message in place of the detail.
func (l *DetailLoader) Load(ctx context.Context, movieID int) {
	l.renderer.ShowLoading(true)
	defer l.renderer.ShowLoading(false)

	detail, err := l.catalog.MovieDetail(ctx, movieID)
	if err != nil {
		l.logger.Printf("[DETAIL] Error fetching movie %d: %v", movieID, err)
		l.renderer.OpenDetailModal(DetailView{MovieID: movieID, Error: DetailErrorMessage})
		return
	}

	l.renderer.OpenDetailModal(DetailView{MovieID: movieID, Detail: detail})
}

func (l *DetailLoader) CloseModal() {
	l.renderer.CloseModal()
}

func (l *DetailLoader) Wait() {
	l.wg.Wait()
}

func (l *DetailLoader) Close() {
	l.cancel()
	l.wg.Wait()
}
