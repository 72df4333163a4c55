// Package tmdb is the HTTP adapter for The Movie Database API. It implements
// browse.Catalog.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kdimtricp/cinescroll/internal/browse"
	"github.com/kdimtricp/cinescroll/internal/models"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"
	PosterSize          = "w500"

	// TMDb allows roughly 40 requests per 10 seconds.
	defaultRatePerSecond = 4
	defaultBurst         = 4
)

var ErrMissingAPIKey = errors.New("TMDb API key not configured")

type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// NetworkError wraps every failed call: transport errors, non-200 statuses
// and undecodable bodies. It matches browse.ErrNetwork with errors.Is.
type NetworkError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tmdb %s", e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": status %d", e.Status)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == browse.ErrNetwork
}

type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	language     string
	httpClient   HTTPDoer
	limiter      *rate.Limiter
	logger       *log.Logger
}

type Option func(*Client)

func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

func WithImageBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.imageBaseURL = strings.TrimSuffix(base, "/")
		}
	}
}

func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithRateLimit throttles outgoing requests. A non-positive rate disables it.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.language = lang
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:       apiKey,
		baseURL:      DefaultBaseURL,
		imageBaseURL: DefaultImageBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(defaultRatePerSecond, defaultBurst),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Movies runs one list request: top rated, search or discover.
func (c *Client) Movies(ctx context.Context, d browse.RequestDescriptor) (*models.MoviePage, error) {
	var resp pageResponse
	if err := c.get(ctx, d.Kind.String(), d.Path(), d.Params(), &resp); err != nil {
		return nil, err
	}

	page, err := resp.toModel()
	if err != nil {
		return nil, &NetworkError{Op: d.Kind.String(), Err: err}
	}
	for i := range page.Movies {
		page.Movies[i].Poster = c.ImageURL(page.Movies[i].PosterPath, PosterSize)
	}
	return page, nil
}

func (c *Client) Genres(ctx context.Context) ([]models.Genre, error) {
	var resp genreListResponse
	if err := c.get(ctx, "genres", "/genre/movie/list", url.Values{}, &resp); err != nil {
		return nil, err
	}

	genres, err := resp.toModel()
	if err != nil {
		return nil, &NetworkError{Op: "genres", Err: err}
	}
	return genres, nil
}

// MovieDetail fetches the extended record with its video list attached.
func (c *Client) MovieDetail(ctx context.Context, movieID int) (*models.MovieDetail, error) {
	params := url.Values{}
	params.Set("append_to_response", "videos")

	var resp detailResponse
	if err := c.get(ctx, "detail", "/movie/"+strconv.Itoa(movieID), params, &resp); err != nil {
		return nil, err
	}

	detail, err := resp.toModel()
	if err != nil {
		return nil, &NetworkError{Op: "detail", Err: err}
	}
	detail.Poster = c.ImageURL(detail.PosterPath, PosterSize)
	return detail, nil
}

// ImageURL builds an image URL on the configured image host. An empty path
// gives the placeholder image.
func (c *Client) ImageURL(path string, size string) string {
	if path == "" {
		return models.PlaceholderImage
	}
	return fmt.Sprintf("%s/%s%s", c.imageBaseURL, size, path)
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("waiting for rate limiter: %w", err)}
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("api_key", c.apiKey)
	if c.language != "" {
		q.Set("language", c.language)
	}
	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	c.logger.Printf("[TMDB] GET %s page=%s -> %d (%s)", path, params.Get("page"), resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(body, &apiErr)
		return &NetworkError{Op: op, Status: resp.StatusCode, Message: apiErr.StatusMessage}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
