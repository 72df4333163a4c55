package web

import (
	"bufio"
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kdimtricp/cinescroll/internal/browse"
	"github.com/kdimtricp/cinescroll/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu       sync.Mutex
	requests []browse.RequestDescriptor
	genres   []models.Genre
	pages    map[int]*models.MoviePage
	failPage int
	detail   *models.MovieDetail
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		genres: []models.Genre{{ID: 28, Name: "Action"}, {ID: 16, Name: "Animation"}},
		pages: map[int]*models.MoviePage{
			1: {Page: 1, TotalPages: 2, Movies: []models.Movie{
				{ID: 278, Title: "The Shawshank Redemption", VoteAverage: 8.7, GenreIDs: []int{18}},
				{ID: 238, Title: "The Godfather", VoteAverage: 8.7, GenreIDs: []int{28}},
			}},
			2: {Page: 2, TotalPages: 2, Movies: []models.Movie{
				{ID: 424, Title: "Schindler's List", VoteAverage: 8.6},
			}},
		},
		detail: &models.MovieDetail{ID: 238, Title: "The Godfather", Runtime: 175},
	}
}

func (f *fakeCatalog) Movies(ctx context.Context, d browse.RequestDescriptor) (*models.MoviePage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, d)
	if d.Page == f.failPage {
		return nil, browse.ErrNetwork
	}
	if page, ok := f.pages[d.Page]; ok {
		return page, nil
	}
	return &models.MoviePage{Page: d.Page, TotalPages: d.Page}, nil
}

func (f *fakeCatalog) Genres(ctx context.Context) ([]models.Genre, error) {
	return f.genres, nil
}

func (f *fakeCatalog) MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	if f.detail == nil || f.detail.ID != movieID {
		return nil, browse.ErrNetwork
	}
	return f.detail, nil
}

func (f *fakeCatalog) lastRequest(t *testing.T) browse.RequestDescriptor {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func (f *fakeCatalog) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestServer(t *testing.T) (*Server, *fakeCatalog) {
	t.Helper()
	catalog := newFakeCatalog()
	s, err := NewServer(catalog, Options{
		SearchDebounce: 10 * time.Millisecond,
		RequestTimeout: time.Second,
		MaxSessions:    4,
		Logger:         log.New(io.Discard, "", 0),
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, catalog
}

func post(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPingHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	PingHandler(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestHomeHandler_CreatesSession(t *testing.T) {
	s, _ := newTestServer(t)
	router := NewRouter(s)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, s.sessions.Len())

	body := rec.Body.String()
	assert.Contains(t, body, "<title>CineScroll</title>")
	assert.Contains(t, body, `sse-connect="/sessions/`)
	assert.Contains(t, body, `<option value="7">7+</option>`)
}

func TestHandlers_UnknownSession(t *testing.T) {
	s, _ := newTestServer(t)
	router := NewRouter(s)

	paths := []string{
		"/sessions/nope/search",
		"/sessions/nope/genres/28/toggle",
		"/sessions/nope/rating",
		"/sessions/nope/clear",
		"/sessions/nope/more",
		"/sessions/nope/movies/238",
		"/sessions/nope/modal/close",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := post(t, router, path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/nope/events", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlers_BadInput(t *testing.T) {
	s, _ := newTestServer(t)
	router := NewRouter(s)
	session := s.NewSession()
	base := "/sessions/" + session.ID

	tests := []struct {
		name string
		path string
		form url.Values
	}{
		{name: "genre id", path: base + "/genres/action/toggle"},
		{name: "rating", path: base + "/rating", form: url.Values{"rating": {"high"}}},
		{name: "sentinel", path: base + "/more", form: url.Values{"sentinel": {"last"}}},
		{name: "movie id", path: base + "/movies/0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, router, tt.path, tt.form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandlers_FilterActions(t *testing.T) {
	s, catalog := newTestServer(t)
	router := NewRouter(s)
	session := s.NewSession()
	base := "/sessions/" + session.ID

	rec := post(t, router, base+"/genres/28/toggle", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	session.browser.Wait()

	d := catalog.lastRequest(t)
	assert.Equal(t, browse.KindDiscover, d.Kind)
	assert.Equal(t, []int{28}, d.GenreIDs)

	rec = post(t, router, base+"/rating", url.Values{"rating": {"7"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	session.browser.Wait()

	d = catalog.lastRequest(t)
	require.NotNil(t, d.RatingFloor)
	assert.Equal(t, 7.0, *d.RatingFloor)
	assert.Equal(t, []int{28}, d.GenreIDs)

	rec = post(t, router, base+"/clear", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	session.browser.Wait()

	d = catalog.lastRequest(t)
	assert.Equal(t, browse.KindTopRated, d.Kind)
	assert.True(t, session.browser.Filter().IsEmpty())
}

func TestHandlers_SearchIsDebounced(t *testing.T) {
	s, catalog := newTestServer(t)
	router := NewRouter(s)
	session := s.NewSession()

	for _, q := range []string{"a", "al", "alien"} {
		rec := post(t, router, "/sessions/"+session.ID+"/search", url.Values{"q": {q}})
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	require.Eventually(t, func() bool {
		return catalog.requestCount() == 1 && !session.browser.Busy()
	}, time.Second, 5*time.Millisecond)

	d := catalog.lastRequest(t)
	assert.Equal(t, browse.KindSearch, d.Kind)
	assert.Equal(t, "alien", d.Query)
}

func TestHandlers_ClearDropsPendingSearch(t *testing.T) {
	catalog := newFakeCatalog()
	s, err := NewServer(catalog, Options{
		SearchDebounce: time.Hour,
		Logger:         log.New(io.Discard, "", 0),
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	router := NewRouter(s)
	session := s.NewSession()

	post(t, router, "/sessions/"+session.ID+"/search", url.Values{"q": {"alien"}})
	post(t, router, "/sessions/"+session.ID+"/clear", nil)
	session.browser.Wait()

	session.search.Flush()
	session.browser.Wait()

	assert.Equal(t, 1, catalog.requestCount())
	assert.Equal(t, browse.KindTopRated, catalog.lastRequest(t).Kind)
}

func TestHandlers_MoreAdvancesPage(t *testing.T) {
	s, catalog := newTestServer(t)
	router := NewRouter(s)
	session := s.NewSession()

	require.True(t, session.browser.TriggerFetch(browse.ReasonInitialLoad))
	session.browser.Wait()

	rec := post(t, router, "/sessions/"+session.ID+"/more", url.Values{"sentinel": {"278"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	session.browser.Wait()
	assert.Equal(t, 1, catalog.requestCount(), "278 is not the last card")

	rec = post(t, router, "/sessions/"+session.ID+"/more", url.Values{"sentinel": {"238"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	session.browser.Wait()

	assert.Equal(t, 2, catalog.requestCount())
	assert.Equal(t, 2, catalog.lastRequest(t).Page)
	assert.Equal(t, 2, session.browser.Page())
}

func TestHandlers_MoreRetriesAfterFailedPage(t *testing.T) {
	s, catalog := newTestServer(t)
	catalog.pages[1].TotalPages = 5
	catalog.failPage = 2
	router := NewRouter(s)
	session := s.NewSession()

	require.True(t, session.browser.TriggerFetch(browse.ReasonInitialLoad))
	session.browser.Wait()

	rec := post(t, router, "/sessions/"+session.ID+"/more", url.Values{"sentinel": {"238"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	session.browser.Wait()
	require.Equal(t, 2, catalog.lastRequest(t).Page)
	assert.Equal(t, 238, session.browser.Sentinel(), "a failed page keeps the sentinel")

	rec = post(t, router, "/sessions/"+session.ID+"/more", url.Values{"sentinel": {"238"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	session.browser.Wait()

	assert.Equal(t, 3, catalog.requestCount())
	assert.Equal(t, 3, catalog.lastRequest(t).Page)
}

func readEvents(t *testing.T, body io.Reader, until func(Event) bool) []Event {
	t.Helper()
	var (
		events  []Event
		current Event
		data    []string
	)
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.Type = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case line == "":
			current.Data = strings.Join(data, "\n")
			events = append(events, current)
			if until(current) {
				return events
			}
			current, data = Event{}, nil
		}
	}
	t.Fatalf("stream ended before the expected event: %v", scanner.Err())
	return nil
}

func TestEventsHandler_StreamsInitialLoad(t *testing.T) {
	s, _ := newTestServer(t)
	server := httptest.NewServer(NewRouter(s))
	defer server.Close()

	session := s.NewSession()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/sessions/"+session.ID+"/events", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := readEvents(t, resp.Body, func(e Event) bool { return e.Type == EventMovies })

	var types []string
	for _, e := range events {
		types = append(types, e.Type)
	}
	assert.Contains(t, types, EventGenres)
	assert.Contains(t, types, EventLoading)

	movies := events[len(events)-1]
	assert.Contains(t, movies.Data, "The Shawshank Redemption")
	assert.Contains(t, movies.Data, "The Godfather")
	assert.Contains(t, movies.Data, "Action", "genre label is resolved from the registry")
	assert.Contains(t, movies.Data, `"sentinel": "238"`)
	assert.Equal(t, 1, strings.Count(movies.Data, `class="sentinel"`))
}

func TestEventsHandler_DetailModal(t *testing.T) {
	s, _ := newTestServer(t)
	server := httptest.NewServer(NewRouter(s))
	defer server.Close()

	session := s.NewSession()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/sessions/"+session.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	readEvents(t, resp.Body, func(e Event) bool { return e.Type == EventMovies })

	res, err := http.Post(server.URL+"/sessions/"+session.ID+"/movies/238", "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusNoContent, res.StatusCode)

	events := readEvents(t, resp.Body, func(e Event) bool { return e.Type == EventModal })
	modal := events[len(events)-1]
	assert.Contains(t, modal.Data, "The Godfather")
	assert.Contains(t, modal.Data, "175 min")

	res, err = http.Post(server.URL+"/sessions/"+session.ID+"/movies/999", "application/x-www-form-urlencoded", nil)
	require.NoError(t, err)
	res.Body.Close()

	events = readEvents(t, resp.Body, func(e Event) bool { return e.Type == EventModal })
	assert.Contains(t, events[len(events)-1].Data, browse.DetailErrorMessage)
}
