package browse

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// FilterState is the user's current search and filter choice. GenreIDs keeps
// click order. Methods return modified copies and never alias the receiver.
type FilterState struct {
	SearchText  string
	GenreIDs    []int
	RatingFloor *float64
}

// Query is the search text as it is sent to the API.
func (f FilterState) Query() string {
	return strings.TrimSpace(f.SearchText)
}

func (f FilterState) HasGenre(id int) bool {
	return slices.Contains(f.GenreIDs, id)
}

func (f FilterState) IsEmpty() bool {
	return f.Query() == "" && len(f.GenreIDs) == 0 && f.RatingFloor == nil
}

func (f FilterState) Clone() FilterState {
	out := FilterState{SearchText: f.SearchText}
	if len(f.GenreIDs) > 0 {
		out.GenreIDs = slices.Clone(f.GenreIDs)
	}
	if f.RatingFloor != nil {
		r := *f.RatingFloor
		out.RatingFloor = &r
	}
	return out
}

func (f FilterState) WithSearch(text string) FilterState {
	out := f.Clone()
	out.SearchText = text
	return out
}

// WithGenreToggled removes id when selected, otherwise appends it.
func (f FilterState) WithGenreToggled(id int) FilterState {
	out := f.Clone()
	if i := slices.Index(out.GenreIDs, id); i >= 0 {
		out.GenreIDs = slices.Delete(out.GenreIDs, i, i+1)
		if len(out.GenreIDs) == 0 {
			out.GenreIDs = nil
		}
		return out
	}
	out.GenreIDs = append(out.GenreIDs, id)
	return out
}

func (f FilterState) WithRating(floor *float64) FilterState {
	out := f.Clone()
	out.RatingFloor = nil
	if floor != nil {
		r := *floor
		out.RatingFloor = &r
	}
	return out
}

// ParseRating reads a rating select value. The empty string means no floor.
// Out-of-range values pass through and are rejected by the API.
func ParseRating(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	r, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing rating %q: %w", value, err)
	}
	return &r, nil
}

func FormatRating(floor *float64) string {
	if floor == nil {
		return ""
	}
	return strconv.FormatFloat(*floor, 'f', -1, 64)
}
