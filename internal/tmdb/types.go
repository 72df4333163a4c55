package tmdb

import (
	"errors"
	"fmt"

	"github.com/kdimtricp/cinescroll/internal/models"
)

// Wire schemas. They are decoded, validated and converted to models at the
// client boundary; nothing outside this package sees them.

type movieResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	PosterPath  *string `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int   `json:"genre_ids"`
}

type pageResponse struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      *[]movieResult `json:"results"`
}

type genreResult struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres *[]genreResult `json:"genres"`
}

type videoResult struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type detailResponse struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Overview    string        `json:"overview"`
	PosterPath  *string       `json:"poster_path"`
	Runtime     int           `json:"runtime"`
	VoteAverage float64       `json:"vote_average"`
	Genres      []genreResult `json:"genres"`
	Videos      struct {
		Results []videoResult `json:"results"`
	} `json:"videos"`
}

type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

var (
	errMissingResults = errors.New("response has no results array")
	errMissingGenres  = errors.New("response has no genres array")
	errMissingID      = errors.New("response has no movie id")
)

func (p *pageResponse) toModel() (*models.MoviePage, error) {
	if p.Results == nil {
		return nil, errMissingResults
	}
	if p.Page < 0 || p.TotalPages < 0 {
		return nil, fmt.Errorf("invalid page numbers: page=%d total=%d", p.Page, p.TotalPages)
	}

	movies := make([]models.Movie, 0, len(*p.Results))
	for _, r := range *p.Results {
		if r.ID <= 0 {
			continue
		}
		movies = append(movies, models.Movie{
			ID:          r.ID,
			Title:       r.Title,
			PosterPath:  deref(r.PosterPath),
			VoteAverage: clampVote(r.VoteAverage),
			GenreIDs:    r.GenreIDs,
		})
	}

	return &models.MoviePage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Movies:       movies,
	}, nil
}

func (g *genreListResponse) toModel() ([]models.Genre, error) {
	if g.Genres == nil {
		return nil, errMissingGenres
	}
	genres := make([]models.Genre, 0, len(*g.Genres))
	for _, r := range *g.Genres {
		genres = append(genres, models.Genre{ID: r.ID, Name: r.Name})
	}
	return genres, nil
}

func (d *detailResponse) toModel() (*models.MovieDetail, error) {
	if d.ID <= 0 {
		return nil, errMissingID
	}

	detail := &models.MovieDetail{
		ID:          d.ID,
		Title:       d.Title,
		Overview:    d.Overview,
		PosterPath:  deref(d.PosterPath),
		Runtime:     d.Runtime,
		VoteAverage: clampVote(d.VoteAverage),
		Genres:      make([]models.Genre, 0, len(d.Genres)),
		Videos:      make([]models.Video, 0, len(d.Videos.Results)),
	}
	for _, g := range d.Genres {
		detail.Genres = append(detail.Genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	for _, v := range d.Videos.Results {
		detail.Videos = append(detail.Videos, models.Video{Key: v.Key, Name: v.Name, Site: v.Site, Type: v.Type})
	}
	return detail, nil
}

func clampVote(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 10:
		return 10
	default:
		return v
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
