package browse_test

import (
	"io"
	"log"
	"slices"
	"sync"

	"github.com/kdimtricp/cinescroll/internal/browse"
	"github.com/kdimtricp/cinescroll/internal/models"
)

type renderCall struct {
	Method   string
	Movies   []models.Movie
	Replace  bool
	Genres   []models.Genre
	Selected []int
	Loading  bool
	Message  string
	View     browse.DetailView
}

// recordingRenderer keeps every call and the list a real view would show.
type recordingRenderer struct {
	mu    sync.Mutex
	calls []renderCall
	shown []models.Movie
	empty bool
	modal *browse.DetailView
}

func (r *recordingRenderer) record(c renderCall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
}

func (r *recordingRenderer) RenderMovies(movies []models.Movie, replace bool) {
	r.mu.Lock()
	if replace {
		r.shown = nil
	}
	r.shown = append(r.shown, movies...)
	r.empty = false
	r.mu.Unlock()
	r.record(renderCall{Method: "RenderMovies", Movies: slices.Clone(movies), Replace: replace})
}

func (r *recordingRenderer) RenderGenres(genres []models.Genre) {
	r.record(renderCall{Method: "RenderGenres", Genres: genres})
}

func (r *recordingRenderer) HighlightGenres(selected []int) {
	r.record(renderCall{Method: "HighlightGenres", Selected: selected})
}

func (r *recordingRenderer) ShowLoading(loading bool) {
	r.record(renderCall{Method: "ShowLoading", Loading: loading})
}

func (r *recordingRenderer) ShowError(message string) {
	r.record(renderCall{Method: "ShowError", Message: message})
}

func (r *recordingRenderer) ShowEmptyState() {
	r.mu.Lock()
	r.shown = nil
	r.empty = true
	r.mu.Unlock()
	r.record(renderCall{Method: "ShowEmptyState"})
}

func (r *recordingRenderer) OpenDetailModal(view browse.DetailView) {
	r.mu.Lock()
	r.modal = &view
	r.mu.Unlock()
	r.record(renderCall{Method: "OpenDetailModal", View: view})
}

func (r *recordingRenderer) CloseModal() {
	r.mu.Lock()
	r.modal = nil
	r.mu.Unlock()
	r.record(renderCall{Method: "CloseModal"})
}

func (r *recordingRenderer) callsTo(method string) []renderCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []renderCall
	for _, c := range r.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (r *recordingRenderer) shownIDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int, 0, len(r.shown))
	for _, m := range r.shown {
		ids = append(ids, m.ID)
	}
	return ids
}

func (r *recordingRenderer) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func moviePage(page, totalPages int, ids ...int) *models.MoviePage {
	movies := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		movies = append(movies, models.Movie{
			ID:          id,
			Title:       "Movie",
			VoteAverage: 7.5,
			GenreIDs:    []int{28},
		})
	}
	return &models.MoviePage{Page: page, TotalPages: totalPages, Movies: movies}
}

func floor(v float64) *float64 {
	return &v
}
