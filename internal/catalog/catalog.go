// Package catalog holds the immutable movie tables and the indexes the
// query and recommendation engines read from. A Catalog is built once at
// startup and is safe for concurrent readers without locking.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"moviehub/pkg/models"
)

var (
	ErrDuplicateMovie = errors.New("duplicate movie id")
	ErrInvalidMonth   = errors.New("release month out of range")
)

// PersonKind selects the actor or director directory.
type PersonKind int

const (
	Actor PersonKind = iota
	Director
)

func (k PersonKind) String() string {
	if k == Director {
		return "director"
	}
	return "actor"
}

// Tables is what a loader hands over at startup.
type Tables struct {
	Movies    []models.Movie
	Genres    []models.Named
	Actors    []models.Named
	Directors []models.Named
}

type Catalog struct {
	movies []models.Movie // natural row order

	byID    map[int]int
	byTitle map[string]int
	byMonth map[int][]int
	byDay   map[string][]int

	people   [2]map[string]int // name -> id per PersonKind
	starring [2]map[int][]int  // person id -> movie rows per PersonKind

	genres []models.Named
}

// New validates the tables and builds the lookup indexes.
func New(t Tables) (*Catalog, error) {
	c := &Catalog{
		movies:  make([]models.Movie, 0, len(t.Movies)),
		byID:    make(map[int]int, len(t.Movies)),
		byTitle: make(map[string]int, len(t.Movies)),
		byMonth: make(map[int][]int, 12),
		byDay:   make(map[string][]int, 7),
	}

	for _, m := range t.Movies {
		if _, dup := c.byID[m.ID]; dup {
			return nil, fmt.Errorf("movie %d: %w", m.ID, ErrDuplicateMovie)
		}
		if m.ReleaseMonth != 0 && (m.ReleaseMonth < 1 || m.ReleaseMonth > 12) {
			return nil, fmt.Errorf("movie %d month %d: %w", m.ID, m.ReleaseMonth, ErrInvalidMonth)
		}

		m.Title = NormalizeTitle(m.Title)
		m.ReleaseDay = NormalizeDay(m.ReleaseDay)

		row := len(c.movies)
		c.movies = append(c.movies, m)
		c.byID[m.ID] = row

		// first row wins for repeated titles
		if _, ok := c.byTitle[m.Title]; !ok {
			c.byTitle[m.Title] = row
		}
		if m.ReleaseMonth != 0 {
			c.byMonth[m.ReleaseMonth] = append(c.byMonth[m.ReleaseMonth], row)
		}
		if m.ReleaseDay != "" {
			c.byDay[m.ReleaseDay] = append(c.byDay[m.ReleaseDay], row)
		}
	}

	c.people[Actor] = directory(t.Actors)
	c.people[Director] = directory(t.Directors)
	c.starring[Actor] = c.membership(func(m models.Movie) []int { return m.ActorIDs })
	c.starring[Director] = c.membership(func(m models.Movie) []int { return m.DirectorIDs })

	c.genres = append([]models.Named(nil), t.Genres...)
	sort.SliceStable(c.genres, func(i, j int) bool { return c.genres[i].ID < c.genres[j].ID })

	return c, nil
}

func directory(entries []models.Named) map[string]int {
	out := make(map[string]int, len(entries))
	for _, e := range entries {
		key := NormalizeTitle(e.Name)
		if _, ok := out[key]; !ok {
			out[key] = e.ID
		}
	}
	return out
}

func (c *Catalog) membership(ids func(models.Movie) []int) map[int][]int {
	out := make(map[int][]int)
	for row, m := range c.movies {
		seen := make(map[int]struct{}, len(ids(m)))
		for _, id := range ids(m) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out[id] = append(out[id], row)
		}
	}
	return out
}

// Len is the number of movies.
func (c *Catalog) Len() int { return len(c.movies) }

// Movies returns a copy of every movie in row order.
func (c *Catalog) Movies() []models.Movie {
	return append([]models.Movie(nil), c.movies...)
}

func (c *Catalog) MovieByID(id int) (models.Movie, bool) {
	row, ok := c.byID[id]
	if !ok {
		return models.Movie{}, false
	}
	return c.movies[row], true
}

// MovieByTitle does a case-insensitive exact match.
func (c *Catalog) MovieByTitle(title string) (models.Movie, bool) {
	row, ok := c.byTitle[NormalizeTitle(title)]
	if !ok {
		return models.Movie{}, false
	}
	return c.movies[row], true
}

func (c *Catalog) MoviesByMonth(month int) []models.Movie {
	return c.rows(c.byMonth[month])
}

// MoviesByDay expects a day name already passed through NormalizeDay.
func (c *Catalog) MoviesByDay(day string) []models.Movie {
	return c.rows(c.byDay[day])
}

// CountByMonth and CountByDay avoid copying rows when only the size is needed.
func (c *Catalog) CountByMonth(month int) int { return len(c.byMonth[month]) }

func (c *Catalog) CountByDay(day string) int { return len(c.byDay[day]) }

// PersonID resolves a display name in the actor or director directory.
func (c *Catalog) PersonID(kind PersonKind, name string) (int, bool) {
	id, ok := c.people[kind][NormalizeTitle(name)]
	return id, ok
}

// MoviesWithPerson lists, in row order, the movies whose actor or
// director id set contains id.
func (c *Catalog) MoviesWithPerson(kind PersonKind, id int) []models.Movie {
	return c.rows(c.starring[kind][id])
}

// Genres returns the genre directory ordered by id.
func (c *Catalog) Genres() []models.Named {
	return append([]models.Named(nil), c.genres...)
}

func (c *Catalog) rows(idx []int) []models.Movie {
	out := make([]models.Movie, 0, len(idx))
	for _, row := range idx {
		out = append(out, c.movies[row])
	}
	return out
}
