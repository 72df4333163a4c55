package models

import (
	"fmt"
	"strings"
)

const (
	ImageBaseURL     = "https://image.tmdb.org/t/p/w500"
	PlaceholderImage = "http://via.placeholder.com/500x750"
	YouTubeEmbedURL  = "https://www.youtube.com/embed/"
	NoGenreLabel     = "N/A"
)

type Genre struct {
	ID   int
	Name string
}

// Movie is one list entry. GenreLabel is filled in by the browser from the
// genre registry just before the movie is handed to a renderer. Poster is the
// resolved image URL when the catalog knows its image host.
type Movie struct {
	ID          int
	Title       string
	PosterPath  string
	Poster      string
	VoteAverage float64
	GenreIDs    []int
	GenreLabel  string
}

func (m Movie) PosterURL() string {
	if m.Poster != "" {
		return m.Poster
	}
	return PosterURL(m.PosterPath)
}

// Stars is the vote average on a five star scale.
func (m Movie) Stars() string {
	return fmt.Sprintf("%.1f/5", m.VoteAverage/2)
}

func (m Movie) Rating() string {
	return fmt.Sprintf("%.1f", m.VoteAverage)
}

type MoviePage struct {
	Page         int
	TotalPages   int
	TotalResults int
	Movies       []Movie
}

type Video struct {
	Key  string
	Name string
	Site string
	Type string
}

func (v Video) EmbedURL() string {
	return YouTubeEmbedURL + v.Key
}

type MovieDetail struct {
	ID          int
	Title       string
	Overview    string
	PosterPath  string
	Poster      string
	Runtime     int
	VoteAverage float64
	Genres      []Genre
	Videos      []Video
}

func (d *MovieDetail) PosterURL() string {
	if d.Poster != "" {
		return d.Poster
	}
	return PosterURL(d.PosterPath)
}

func (d *MovieDetail) GenreNames() string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// Trailer returns the first YouTube trailer attached to the detail, if any.
func (d *MovieDetail) Trailer() (Video, bool) {
	for _, v := range d.Videos {
		if v.Type == "Trailer" && v.Site == "YouTube" {
			return v, true
		}
	}
	return Video{}, false
}

// TrailerURL is the embed URL of Trailer, or "" when there is none.
func (d *MovieDetail) TrailerURL() string {
	if v, ok := d.Trailer(); ok {
		return v.EmbedURL()
	}
	return ""
}

func PosterURL(path string) string {
	if path == "" {
		return PlaceholderImage
	}
	return ImageBaseURL + path
}
