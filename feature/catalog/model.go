package catalog

import (
	"strings"
	"time"

	"diffing-research/core/diff"
)

// Movie is one TMDB movie record.
type Movie struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
	ReleaseDate string `json:"release_date"`
}

// MovieViewModel is a Movie as presented by a board.
type MovieViewModel struct {
	Movie
	// Cached is true when the row was served from the repository instead of
	// a live fetch.
	Cached bool `json:"cached"`
}

// NewMovieViewModel wraps m.
func NewMovieViewModel(m Movie, cached bool) MovieViewModel {
	return MovieViewModel{Movie: m, Cached: cached}
}

// DifferenceIdentifier returns the TMDB id.
func (m MovieViewModel) DifferenceIdentifier() int {
	return m.ID
}

// IsContentEqual compares every displayed field, including the cached flag.
func (m MovieViewModel) IsContentEqual(other MovieViewModel) bool {
	return m == other
}

// Contract is the diff contract for movie snapshots.
var Contract = diff.ContractOf[int, MovieViewModel]()

// Page is the fetched result of one category.
type Page struct {
	Category  string           `json:"category"`
	Movies    []MovieViewModel `json:"movies"`
	FetchedAt time.Time        `json:"fetched_at"`
	Cached    bool             `json:"cached"`
}

// Sample is an ordered draw of pages, possibly repeating a page.
type Sample []Page

// Categories returns the category of every drawn page, in draw order.
func (s Sample) Categories() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Category
	}
	return out
}

// Snapshot aggregates the sample. Flat snapshots hold one implicit section;
// sectioned ones hold one section per distinct category in draw order. A
// movie appears once, at its first occurrence.
func (s Sample) Snapshot(sectioned bool) diff.Snapshot[MovieViewModel] {
	seen := make(map[int]struct{})
	keep := func(dst []MovieViewModel, movies []MovieViewModel) []MovieViewModel {
		for _, m := range movies {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			dst = append(dst, m)
		}
		return dst
	}

	if !sectioned {
		var items []MovieViewModel
		for _, p := range s {
			items = keep(items, p.Movies)
		}
		return diff.Flat(items)
	}

	index := make(map[string]int)
	var snapshot diff.Snapshot[MovieViewModel]
	for _, p := range s {
		i, ok := index[p.Category]
		if !ok {
			i = len(snapshot)
			index[p.Category] = i
			snapshot = append(snapshot, diff.Section[MovieViewModel]{Key: p.Category, Header: Title(p.Category)})
		}
		snapshot[i].Elements = keep(snapshot[i].Elements, p.Movies)
	}
	return snapshot
}

// Title turns a category slug such as top_rated into "Top Rated".
func Title(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
