package browse

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Kind int

const (
	KindTopRated Kind = iota
	KindSearch
	KindDiscover
)

func (k Kind) String() string {
	switch k {
	case KindTopRated:
		return "top-rated"
	case KindSearch:
		return "search"
	case KindDiscover:
		return "discover"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RequestDescriptor fully describes one list request except for the API key,
// which the HTTP adapter adds.
type RequestDescriptor struct {
	Kind        Kind
	Query       string
	GenreIDs    []int
	RatingFloor *float64
	Page        int
}

// BuildQuery maps filter state and a page number to a request. Search text
// wins over genre and rating filters; the two are never combined.
func BuildQuery(f FilterState, page int) RequestDescriptor {
	if q := f.Query(); q != "" {
		return RequestDescriptor{Kind: KindSearch, Query: q, Page: page}
	}

	if len(f.GenreIDs) > 0 || f.RatingFloor != nil {
		clone := f.Clone()
		return RequestDescriptor{
			Kind:        KindDiscover,
			GenreIDs:    clone.GenreIDs,
			RatingFloor: clone.RatingFloor,
			Page:        page,
		}
	}

	return RequestDescriptor{Kind: KindTopRated, Page: page}
}

func (d RequestDescriptor) Path() string {
	switch d.Kind {
	case KindSearch:
		return "/search/movie"
	case KindDiscover:
		return "/discover/movie"
	default:
		return "/movie/top_rated"
	}
}

// WithGenres is the comma-joined genre list in selection order.
func (d RequestDescriptor) WithGenres() string {
	ids := make([]string, 0, len(d.GenreIDs))
	for _, id := range d.GenreIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	return strings.Join(ids, ",")
}

func (d RequestDescriptor) Params() url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(d.Page))

	switch d.Kind {
	case KindSearch:
		params.Set("query", d.Query)
	case KindDiscover:
		if len(d.GenreIDs) > 0 {
			params.Set("with_genres", d.WithGenres())
		}
		if d.RatingFloor != nil {
			params.Set("vote_average.gte", FormatRating(d.RatingFloor))
		}
	}

	return params
}

func (d RequestDescriptor) String() string {
	return fmt.Sprintf("%s?%s", d.Path(), d.Params().Encode())
}
