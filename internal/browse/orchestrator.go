package browse

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/kdimtricp/cinescroll/internal/models"
	"github.com/sourcegraph/conc"
)

// Reason says why a list fetch was requested.
type Reason int

const (
	ReasonInitialLoad Reason = iota
	ReasonSearchChanged
	ReasonFilterChanged
	ReasonRatingChanged
	ReasonClearFilters
	ReasonScrollMore
)

func (r Reason) String() string {
	switch r {
	case ReasonInitialLoad:
		return "initial-load"
	case ReasonSearchChanged:
		return "search-changed"
	case ReasonFilterChanged:
		return "filter-changed"
	case ReasonRatingChanged:
		return "rating-changed"
	case ReasonClearFilters:
		return "clear-filters"
	case ReasonScrollMore:
		return "scroll-more"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Orchestrator owns one browsing session: the filter state, the page cursor
// and the in-flight flag. At most one list fetch is outstanding at a time; a
// trigger that arrives while one is running is dropped, not queued.
type Orchestrator struct {
	catalog  Catalog
	renderer Renderer
	logger   *log.Logger
	timeout  time.Duration

	staleGuard bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu         sync.Mutex
	filter     FilterState
	page       int
	totalPages int
	inFlight   bool
	generation uint64
	lastChange Reason
	sentinel   int
	genres     *GenreRegistry
	closed     bool
}

func New(catalog Catalog, renderer Renderer, opts ...Option) *Orchestrator {
	s := newSettings(opts)
	ctx, cancel := context.WithCancel(context.Background())

	return &Orchestrator{
		catalog:    catalog,
		renderer:   renderer,
		logger:     s.logger,
		timeout:    s.timeout,
		staleGuard: s.staleGuard,
		ctx:        ctx,
		cancel:     cancel,
		page:       1,
		genres:     NewGenreRegistry(nil),
	}
}

// Start loads the genre registry and then issues the initial top-rated fetch.
// A genre failure only leaves the registry empty.
func (o *Orchestrator) Start(ctx context.Context) {
	genres, err := o.catalog.Genres(ctx)
	if err != nil {
		o.logger.Printf("[BROWSE] Error loading genres: %v", err)
		genres = nil
	}

	registry := NewGenreRegistry(genres)
	o.mu.Lock()
	o.genres = registry
	o.mu.Unlock()

	if registry.Len() > 0 {
		o.renderer.RenderGenres(registry.All())
	}

	o.TriggerFetch(ReasonInitialLoad)
}

// TriggerFetch requests a list fetch. Every reason except scroll-more resets
// the cursor to page 1 and replaces the rendered list; scroll-more advances
// the cursor and appends. It returns false when the trigger was dropped.
func (o *Orchestrator) TriggerFetch(reason Reason) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false
	}
	if o.inFlight {
		o.logger.Printf("[BROWSE] Dropping %s trigger: fetch already in flight", reason)
		return false
	}

	page := 1
	if reason == ReasonScrollMore {
		if o.totalPages > 0 && o.page >= o.totalPages {
			o.logger.Printf("[BROWSE] Dropping %s trigger: page %d is the last of %d", reason, o.page, o.totalPages)
			return false
		}
		page = o.page + 1
	} else {
		o.totalPages = 0
	}

	o.page = page
	desc := BuildQuery(o.filter, page)
	o.inFlight = true
	gen := o.generation

	o.logger.Printf("[BROWSE] %s: fetching %s", reason, desc)
	o.wg.Go(func() { o.fetch(desc, gen) })
	return true
}

// ScrollMore asks for the next page of the current query.
func (o *Orchestrator) ScrollMore() bool {
	return o.TriggerFetch(ReasonScrollMore)
}

// SentinelReached is called when the item with movieID became visible. Only
// the last item of the most recent batch advances the page.
func (o *Orchestrator) SentinelReached(movieID int) bool {
	o.mu.Lock()
	current := o.sentinel
	o.mu.Unlock()

	if current == 0 || movieID != current {
		return false
	}
	return o.ScrollMore()
}

func (o *Orchestrator) SetSearch(text string) bool {
	o.mu.Lock()
	o.filter = o.filter.WithSearch(text)
	o.generation++
	o.lastChange = ReasonSearchChanged
	o.mu.Unlock()

	return o.TriggerFetch(ReasonSearchChanged)
}

func (o *Orchestrator) ToggleGenre(id int) bool {
	o.mu.Lock()
	o.filter = o.filter.WithGenreToggled(id)
	o.generation++
	o.lastChange = ReasonFilterChanged
	selected := slices.Clone(o.filter.GenreIDs)
	o.mu.Unlock()

	o.renderer.HighlightGenres(selected)
	return o.TriggerFetch(ReasonFilterChanged)
}

func (o *Orchestrator) SetRating(floor *float64) bool {
	o.mu.Lock()
	o.filter = o.filter.WithRating(floor)
	o.generation++
	o.lastChange = ReasonRatingChanged
	o.mu.Unlock()

	return o.TriggerFetch(ReasonRatingChanged)
}

// ClearFilters empties search text, genres and rating, then reloads the
// top-rated listing.
func (o *Orchestrator) ClearFilters() bool {
	o.mu.Lock()
	o.filter = FilterState{}
	o.generation++
	o.lastChange = ReasonClearFilters
	o.mu.Unlock()

	o.renderer.HighlightGenres(nil)
	return o.TriggerFetch(ReasonClearFilters)
}

func (o *Orchestrator) Filter() FilterState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.filter.Clone()
}

// Page is the page number of the most recently issued list request.
func (o *Orchestrator) Page() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// Sentinel is the ID of the last movie of the most recently rendered batch,
// or 0 when nothing is rendered.
func (o *Orchestrator) Sentinel() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sentinel
}

func (o *Orchestrator) Genres() *GenreRegistry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.genres
}

// Wait blocks until the outstanding fetch, if any, has been applied.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close cancels the outstanding fetch and rejects further triggers.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	o.cancel()
	o.wg.Wait()
}

func (o *Orchestrator) fetch(desc RequestDescriptor, gen uint64) {
	refetch := false
	defer func() {
		o.mu.Lock()
		o.inFlight = false
		reason := o.lastChange
		o.mu.Unlock()

		if refetch {
			o.TriggerFetch(reason)
		}
	}()

	o.renderer.ShowLoading(true)
	defer o.renderer.ShowLoading(false)

	ctx, cancel := context.WithTimeout(o.ctx, o.timeout)
	defer cancel()

	page, err := o.catalog.Movies(ctx, desc)

	if o.ctx.Err() != nil {
		// Closed while the request was running.
		return
	}
	if o.staleGuard && o.isStale(gen) {
		o.logger.Printf("[BROWSE] Discarding stale result for %s", desc)
		refetch = true
		return
	}

	if err != nil {
		o.onFetchFailure(desc, err)
		return
	}
	o.onFetchSuccess(desc, page)
}

func (o *Orchestrator) isStale(gen uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generation != gen && !o.closed
}

func (o *Orchestrator) onFetchSuccess(desc RequestDescriptor, page *models.MoviePage) {
	first := desc.Page == 1

	var results []models.Movie
	totalPages := 0
	if page != nil {
		results = page.Movies
		totalPages = page.TotalPages
	}

	o.mu.Lock()
	movies := make([]models.Movie, len(results))
	for i, m := range results {
		m.GenreLabel = o.genres.Label(m.GenreIDs)
		movies[i] = m
	}
	if totalPages > 0 {
		o.totalPages = totalPages
	}
	if first {
		o.sentinel = 0
	}
	if len(movies) > 0 {
		o.sentinel = movies[len(movies)-1].ID
	}
	o.mu.Unlock()

	o.logger.Printf("[BROWSE] Received %d movies for %s", len(movies), desc)

	switch {
	case first && len(movies) == 0:
		o.renderer.ShowEmptyState()
	case len(movies) == 0:
		// Past the end of an appending query; nothing to add.
	default:
		o.renderer.RenderMovies(movies, first)
	}
}

func (o *Orchestrator) onFetchFailure(desc RequestDescriptor, err error) {
	o.logger.Printf("[BROWSE] Error fetching %s: %v", desc, err)
	o.renderer.ShowError(FetchErrorMessage)
}
