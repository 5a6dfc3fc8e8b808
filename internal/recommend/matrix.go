package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrRaggedMatrix = errors.New("matrix rows have different widths")
	ErrDuplicateRow = errors.New("duplicate matrix row")
	ErrUnknownMovie = errors.New("matrix row for unknown movie")
	ErrBadColumn    = errors.New("feature column out of range")
)

// Feature is one nonzero cell of a matrix row.
type Feature struct {
	Col int     `json:"c"`
	Val float64 `json:"v"`
}

// Matrix is the feature (weight) matrix: one row per movie id. Rows are
// stored sparse, sorted by column, with zero cells dropped. It is never
// mutated after construction.
type Matrix struct {
	width int
	ids   []int
	rows  [][]Feature
	norms []float64
	index map[int]int
}

// NewMatrix builds a matrix from dense rows, which must all have the
// same width.
func NewMatrix(ids []int, rows [][]float64) (*Matrix, error) {
	if len(ids) != len(rows) {
		return nil, fmt.Errorf("%d ids for %d rows: %w", len(ids), len(rows), ErrRaggedMatrix)
	}

	width := 0
	sparse := make([][]Feature, len(rows))
	for i, r := range rows {
		if i == 0 {
			width = len(r)
		} else if len(r) != width {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", ids[i], len(r), width, ErrRaggedMatrix)
		}
		for col, v := range r {
			if v != 0 {
				sparse[i] = append(sparse[i], Feature{Col: col, Val: v})
			}
		}
	}
	return newMatrix(ids, sparse, width)
}

// NewSparseMatrix builds a matrix of the given width from sparse rows.
// Features may come in any column order; a column repeated within a row
// is an error.
func NewSparseMatrix(ids []int, rows [][]Feature, width int) (*Matrix, error) {
	if len(ids) != len(rows) {
		return nil, fmt.Errorf("%d ids for %d rows: %w", len(ids), len(rows), ErrRaggedMatrix)
	}

	sparse := make([][]Feature, len(rows))
	for i, r := range rows {
		row := make([]Feature, 0, len(r))
		for _, f := range r {
			if f.Col < 0 || f.Col >= width {
				return nil, fmt.Errorf("row %d column %d of %d: %w", ids[i], f.Col, width, ErrBadColumn)
			}
			if f.Val != 0 {
				row = append(row, f)
			}
		}
		sort.Slice(row, func(a, b int) bool { return row[a].Col < row[b].Col })
		for j := 1; j < len(row); j++ {
			if row[j].Col == row[j-1].Col {
				return nil, fmt.Errorf("row %d repeats column %d: %w", ids[i], row[j].Col, ErrBadColumn)
			}
		}
		sparse[i] = row
	}
	return newMatrix(ids, sparse, width)
}

// newMatrix takes ownership of rows, which must already be sorted.
func newMatrix(ids []int, rows [][]Feature, width int) (*Matrix, error) {
	m := &Matrix{
		width: width,
		ids:   append([]int(nil), ids...),
		rows:  rows,
		norms: make([]float64, len(rows)),
		index: make(map[int]int, len(ids)),
	}
	for i, id := range ids {
		if _, dup := m.index[id]; dup {
			return nil, fmt.Errorf("movie %d: %w", id, ErrDuplicateRow)
		}
		m.index[id] = i
		m.norms[i] = sparseNorm(rows[i])
	}
	return m, nil
}

func (m *Matrix) Len() int { return len(m.ids) }

func (m *Matrix) Width() int { return m.width }

// IDs returns the movie ids in row order.
func (m *Matrix) IDs() []int { return append([]int(nil), m.ids...) }

// Row returns the features for a movie id as a dense copy.
func (m *Matrix) Row(id int) ([]float64, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	dense := make([]float64, m.width)
	for _, f := range m.rows[i] {
		dense[f.Col] = f.Val
	}
	return dense, true
}

// Features returns a copy of the nonzero cells of a movie's row.
func (m *Matrix) Features(id int) ([]Feature, bool) {
	i, ok := m.index[id]
	if !ok {
		return nil, false
	}
	return append([]Feature{}, m.rows[i]...), true
}

func (m *Matrix) Has(id int) bool {
	_, ok := m.index[id]
	return ok
}

// Cosine is dot(a,b) / (|a| |b|), or 0 when either vector is all zeros.
func Cosine(a, b []float64) float64 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (na * nb)
}

// sparseCosine merges two column-sorted rows.
func sparseCosine(a, b []Feature, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i].Col == b[j].Col:
			dot += a[i].Val * b[j].Val
			i++
			j++
		case a[i].Col < b[j].Col:
			i++
		default:
			j++
		}
	}
	return dot / (na * nb)
}

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func sparseNorm(r []Feature) float64 {
	var s float64
	for _, f := range r {
		s += f.Val * f.Val
	}
	return math.Sqrt(s)
}
