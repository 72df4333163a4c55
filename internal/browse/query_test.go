package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rating(v float64) *float64 {
	return &v
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name       string
		filter     FilterState
		page       int
		kind       Kind
		path       string
		query      string
		withGenres string
		voteGTE    string
	}{
		{
			name:   "search wins over genres and rating",
			filter: FilterState{SearchText: "alien", GenreIDs: []int{28}, RatingFloor: rating(7)},
			page:   1,
			kind:   KindSearch,
			path:   "/search/movie",
			query:  "alien",
		},
		{
			name:   "search text is trimmed",
			filter: FilterState{SearchText: "  the matrix  "},
			page:   3,
			kind:   KindSearch,
			path:   "/search/movie",
			query:  "the matrix",
		},
		{
			name:       "genres without rating",
			filter:     FilterState{GenreIDs: []int{12, 16}},
			page:       1,
			kind:       KindDiscover,
			path:       "/discover/movie",
			withGenres: "12,16",
		},
		{
			name:       "genres keep click order",
			filter:     FilterState{GenreIDs: []int{35, 18, 27}, RatingFloor: rating(6.5)},
			page:       2,
			kind:       KindDiscover,
			path:       "/discover/movie",
			withGenres: "35,18,27",
			voteGTE:    "6.5",
		},
		{
			name:    "rating without genres omits with_genres",
			filter:  FilterState{RatingFloor: rating(8)},
			page:    1,
			kind:    KindDiscover,
			path:    "/discover/movie",
			voteGTE: "8",
		},
		{
			name:    "whitespace search falls through to filters",
			filter:  FilterState{SearchText: "   ", RatingFloor: rating(0)},
			page:    1,
			kind:    KindDiscover,
			path:    "/discover/movie",
			voteGTE: "0",
		},
		{
			name:    "out of range rating is passed through",
			filter:  FilterState{RatingFloor: rating(42)},
			page:    1,
			kind:    KindDiscover,
			path:    "/discover/movie",
			voteGTE: "42",
		},
		{
			name:   "empty state is top rated",
			filter: FilterState{},
			page:   1,
			kind:   KindTopRated,
			path:   "/movie/top_rated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := BuildQuery(tt.filter, tt.page)

			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.page, d.Page)
			assert.Equal(t, tt.path, d.Path())

			params := d.Params()
			assert.Equal(t, tt.query, params.Get("query"))
			assert.Equal(t, tt.withGenres, params.Get("with_genres"))
			assert.Equal(t, tt.voteGTE, params.Get("vote_average.gte"))
			assert.Equal(t, params.Has("with_genres"), tt.withGenres != "")
			assert.Equal(t, params.Has("vote_average.gte"), tt.voteGTE != "")
		})
	}
}

func TestBuildQuery_SearchIgnoresFilters(t *testing.T) {
	d := BuildQuery(FilterState{SearchText: "alien", GenreIDs: []int{28}, RatingFloor: rating(7)}, 1)

	assert.Equal(t, KindSearch, d.Kind)
	assert.Empty(t, d.GenreIDs)
	assert.Nil(t, d.RatingFloor)
	assert.Equal(t, "/search/movie?page=1&query=alien", d.String())
}

func TestBuildQuery_DoesNotAliasFilter(t *testing.T) {
	f := FilterState{GenreIDs: []int{12, 16}, RatingFloor: rating(7)}
	d := BuildQuery(f, 1)

	f.GenreIDs[0] = 99
	*f.RatingFloor = 1

	assert.Equal(t, "12,16", d.WithGenres())
	require.NotNil(t, d.RatingFloor)
	assert.Equal(t, 7.0, *d.RatingFloor)
}

func TestKindAndReasonStrings(t *testing.T) {
	assert.Equal(t, "top-rated", KindTopRated.String())
	assert.Equal(t, "search", KindSearch.String())
	assert.Equal(t, "discover", KindDiscover.String())
	assert.Equal(t, "scroll-more", ReasonScrollMore.String())
	assert.Equal(t, "clear-filters", ReasonClearFilters.String())
}
