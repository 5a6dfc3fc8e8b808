// Package dataset loads and stores the five catalog tables: movies,
// genres, actors, directors and the optional feature matrix. Any error
// here is a startup fault.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"moviehub/internal/catalog"
	"moviehub/internal/recommend"
	"moviehub/pkg/models"
)

var ErrMissingTable = errors.New("missing table")

const (
	MoviesFile    = "movies.csv"
	GenresFile    = "genres.csv"
	ActorsFile    = "actors.csv"
	DirectorsFile = "directors.csv"
	WeightsFile   = "weights.csv"
)

var movieColumns = []string{
	"id", "title", "release_year", "release_month", "release_day",
	"popularity", "vote_count", "vote_average", "budget", "revenue", "return",
	"genres_id", "actors_id", "directors_id",
}

// Dataset is everything the engines need. Weights is nil when no
// precomputed matrix was found.
type Dataset struct {
	Tables  catalog.Tables
	Weights *recommend.Matrix
}

// LoadDir reads the CSV tables from dir. weightsPath may be empty, in
// which case dir/weights.csv is used if present.
func LoadDir(dir, weightsPath string) (*Dataset, error) {
	var ds Dataset
	var err error

	if ds.Tables.Movies, err = readMovies(filepath.Join(dir, MoviesFile)); err != nil {
		return nil, err
	}
	if ds.Tables.Genres, err = readDirectory(filepath.Join(dir, GenresFile), "genre"); err != nil {
		return nil, err
	}
	if ds.Tables.Actors, err = readDirectory(filepath.Join(dir, ActorsFile), "actor"); err != nil {
		return nil, err
	}
	if ds.Tables.Directors, err = readDirectory(filepath.Join(dir, DirectorsFile), "director"); err != nil {
		return nil, err
	}

	explicit := weightsPath != ""
	if !explicit {
		weightsPath = filepath.Join(dir, WeightsFile)
	}
	ds.Weights, err = readWeights(weightsPath)
	if errors.Is(err, ErrMissingTable) && !explicit {
		return &ds, nil
	}
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func openTable(path string) (*os.File, *csv.Reader, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, nil, fmt.Errorf("%s: %w", path, ErrMissingTable)
		}
		return nil, nil, nil, fmt.Errorf("open %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		_ = f.Close()
		return nil, nil, nil, fmt.Errorf("read header %s: %w", path, err)
	}
	return f, r, header, nil
}

func readMovies(path string) ([]models.Movie, error) {
	f, r, header, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for _, col := range []string{"id", "title"} {
		if _, ok := header[col]; !ok {
			return nil, fmt.Errorf("%s: column %q not found", path, col)
		}
	}
	_, hasReturn := header["return"]

	var out []models.Movie
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		if len(row) == 0 {
			continue
		}

		m, err := parseMovie(header, row, hasReturn)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func parseMovie(header map[string]int, row []string, hasReturn bool) (models.Movie, error) {
	var (
		m   models.Movie
		err error
	)
	p := fieldParser{header: header, row: row}

	m.ID = p.intField("id")
	m.Title = valueAt(header, row, "title")
	m.ReleaseYear = p.intField("release_year")
	m.ReleaseMonth = p.intField("release_month")
	m.ReleaseDay = valueAt(header, row, "release_day")
	m.Popularity = p.floatField("popularity")
	m.VoteCount = p.intField("vote_count")
	m.VoteAverage = p.floatField("vote_average")
	m.Budget = p.floatField("budget")
	m.Revenue = p.floatField("revenue")
	if hasReturn {
		m.Return = p.floatField("return")
	} else {
		m.Return = models.ComputeReturn(m.Budget, m.Revenue)
	}
	if p.err != nil {
		return m, p.err
	}

	if m.GenreIDs, err = ParseIDList(valueAt(header, row, "genres_id")); err != nil {
		return m, fmt.Errorf("genres_id: %w", err)
	}
	if m.ActorIDs, err = ParseIDList(valueAt(header, row, "actors_id")); err != nil {
		return m, fmt.Errorf("actors_id: %w", err)
	}
	if m.DirectorIDs, err = ParseIDList(valueAt(header, row, "directors_id")); err != nil {
		return m, fmt.Errorf("directors_id: %w", err)
	}
	return m, nil
}

// readDirectory reads a two column name,id table. nameCol is the header
// of the name column ("genre", "actor", "director").
func readDirectory(path, nameCol string) ([]models.Named, error) {
	f, r, header, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, ok := header[nameCol]; !ok {
		return nil, fmt.Errorf("%s: column %q not found", path, nameCol)
	}

	var out []models.Named
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		name := valueAt(header, row, nameCol)
		if name == "" {
			continue
		}
		p := fieldParser{header: header, row: row}
		id := p.intField("id")
		if p.err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, p.err)
		}
		out = append(out, models.Named{ID: id, Name: name})
	}
	return out, nil
}

// readWeights reads id,f0,f1,... rows into a matrix. Column order after
// "id" is kept as written.
func readWeights(path string) (*recommend.Matrix, error) {
	f, r, header, err := openTable(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idCol, ok := header["id"]
	if !ok {
		return nil, fmt.Errorf("%s: column %q not found", path, "id")
	}

	var (
		ids  []int
		rows [][]recommend.Feature
	)
	width := len(header) - 1
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		if len(row) != width+1 {
			return nil, fmt.Errorf("%s line %d has %d columns, want %d: %w", path, line, len(row), width+1, recommend.ErrRaggedMatrix)
		}
		id, err := parseInt(strings.TrimSpace(row[idCol]))
		if err != nil {
			return nil, fmt.Errorf("%s line %d id: %w", path, line, err)
		}

		// kept sparse as read; a dense copy of a large matrix does not fit in memory
		var features []recommend.Feature
		col := 0
		for i, raw := range row {
			if i == idCol {
				continue
			}
			v, err := parseFloat(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("%s line %d column %d: %w", path, line, i, err)
			}
			if v != 0 {
				features = append(features, recommend.Feature{Col: col, Val: v})
			}
			col++
		}
		ids = append(ids, id)
		rows = append(rows, features)
	}

	m, err := recommend.NewSparseMatrix(ids, rows, width)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseIDList accepts "[1, 2, 3]", "1,2,3" or an empty value.
func ParseIDList(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "[")
	raw = strings.TrimSuffix(raw, "]")
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(strings.TrimSpace(part), `'"`)
		if part == "" {
			continue
		}
		n, err := parseInt(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// fieldParser keeps the first parse error so a row can be read field by
// field without checking after each one.
type fieldParser struct {
	header map[string]int
	row    []string
	err    error
}

func (p *fieldParser) intField(key string) int {
	n, err := parseInt(valueAt(p.header, p.row, key))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
	return n
}

func (p *fieldParser) floatField(key string) float64 {
	v, err := parseFloat(valueAt(p.header, p.row, key))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", key, err)
	}
	return v
}

// parseInt also accepts whole floats such as "1995.0".
func parseInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}
	return int(f), nil
}

func parseFloat(raw string) (float64, error) {
	if raw == "" || strings.EqualFold(raw, "nan") {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return v, nil
}
