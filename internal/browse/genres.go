package browse

import (
	"slices"
	"strings"

	"github.com/kdimtricp/cinescroll/internal/models"
)

// GenreRegistry maps genre IDs to display names. It is loaded once and never
// modified afterwards, so it is safe to share between goroutines.
type GenreRegistry struct {
	names map[int]string
	order []models.Genre
}

func NewGenreRegistry(genres []models.Genre) *GenreRegistry {
	r := &GenreRegistry{
		names: make(map[int]string, len(genres)),
		order: make([]models.Genre, 0, len(genres)),
	}
	for _, g := range genres {
		if _, dup := r.names[g.ID]; dup {
			continue
		}
		r.names[g.ID] = g.Name
		r.order = append(r.order, g)
	}
	return r
}

func (r *GenreRegistry) Name(id int) (string, bool) {
	name, ok := r.names[id]
	return name, ok
}

// Label joins the known names for ids. Unknown IDs are skipped, and when
// nothing resolves the placeholder label is returned.
func (r *GenreRegistry) Label(ids []int) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := r.names[id]; ok && name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return models.NoGenreLabel
	}
	return strings.Join(names, ", ")
}

func (r *GenreRegistry) All() []models.Genre {
	return slices.Clone(r.order)
}

func (r *GenreRegistry) Len() int {
	return len(r.order)
}
