// Package recommend implements content-based recommendations: cosine
// similarity between rows of a movie feature matrix.
package recommend

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"moviehub/internal/catalog"
	"moviehub/pkg/models"
)

const (
	DefaultLimit = 5

	// below this many rows scoring runs on the calling goroutine
	parallelThreshold = 4096
)

type Options struct {
	Limit   int // titles returned per query
	Workers int // scoring goroutines, 0 = runtime.NumCPU()
}

type Engine struct {
	Catalog *catalog.Catalog
	Matrix  *Matrix

	limit   int
	workers int
}

// Scored is one matrix row with its similarity to the query movie.
type Scored struct {
	MovieID    int
	Similarity float64
}

// NewEngine checks that every matrix row belongs to a catalog movie.
func NewEngine(c *catalog.Catalog, m *Matrix, opts Options) (*Engine, error) {
	for _, id := range m.ids {
		if _, ok := c.MovieByID(id); !ok {
			return nil, fmt.Errorf("movie %d: %w", id, ErrUnknownMovie)
		}
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Engine{Catalog: c, Matrix: m, limit: opts.Limit, workers: opts.Workers}, nil
}

// Recommend returns the titles of the most similar movies, sorted
// alphabetically. Among movies tied on similarity at the cut-off, the
// earlier matrix row wins.
func (e *Engine) Recommend(title string) models.Recommendation {
	movie, ok := e.Catalog.MovieByTitle(title)
	if !ok {
		return models.Recommendation{Status: models.MovieNotFound}
	}

	similar, ok := e.Similar(movie.ID, e.limit)
	if !ok {
		return models.Recommendation{Status: models.InsufficientData}
	}

	titles := make([]string, 0, len(similar))
	for _, s := range similar {
		m, _ := e.Catalog.MovieByID(s.MovieID)
		titles = append(titles, catalog.TitleCase(m.Title))
	}
	sort.Strings(titles)

	return models.Recommendation{Status: models.Recommended, Titles: titles}
}

// Similar ranks every other matrix row by cosine similarity to the row
// of movieID and returns the top k. ok is false when the movie has no row.
func (e *Engine) Similar(movieID, k int) (top []Scored, ok bool) {
	q, ok := e.Matrix.index[movieID]
	if !ok {
		return nil, false
	}

	scores := e.scores(q)

	order := make([]int, 0, len(scores))
	for i := range scores {
		if i != q {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	top = make([]Scored, 0, k)
	for _, i := range order[:k] {
		top = append(top, Scored{MovieID: e.Matrix.ids[i], Similarity: scores[i]})
	}
	return top, true
}

func (e *Engine) scores(q int) []float64 {
	m := e.Matrix
	n := m.Len()
	out := make([]float64, n)
	qv, qn := m.rows[q], m.norms[q]

	score := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = sparseCosine(qv, m.rows[i], qn, m.norms[i])
		}
	}

	workers := e.workers
	if n < parallelThreshold || workers <= 1 {
		score(0, n)
		return out
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			score(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return out
}
