package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"moviehub/internal/recommend"
	"moviehub/pkg/models"
)

// WriteDir writes the tables as CSV files LoadDir can read back. The
// weights file is written only when ds.Weights is set.
func WriteDir(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeTable(filepath.Join(dir, MoviesFile), movieColumns, len(ds.Tables.Movies), func(i int) []string {
		return movieRecord(ds.Tables.Movies[i])
	}); err != nil {
		return err
	}

	dirs := []struct {
		file, col string
		rows      []models.Named
	}{
		{GenresFile, "genre", ds.Tables.Genres},
		{ActorsFile, "actor", ds.Tables.Actors},
		{DirectorsFile, "director", ds.Tables.Directors},
	}
	for _, d := range dirs {
		rows := d.rows
		if err := writeTable(filepath.Join(dir, d.file), []string{d.col, "id"}, len(rows), func(i int) []string {
			return []string{rows[i].Name, strconv.Itoa(rows[i].ID)}
		}); err != nil {
			return err
		}
	}

	if ds.Weights != nil {
		return WriteWeights(filepath.Join(dir, WeightsFile), ds.Weights)
	}
	return nil
}

// WriteWeights writes id,f0..fn rows in matrix order.
func WriteWeights(path string, m *recommend.Matrix) error {
	header := make([]string, 0, m.Width()+1)
	header = append(header, "id")
	for i := 0; i < m.Width(); i++ {
		header = append(header, "f"+strconv.Itoa(i))
	}

	ids := m.IDs()
	return writeTable(path, header, len(ids), func(i int) []string {
		row, _ := m.Row(ids[i])
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.Itoa(ids[i]))
		for _, v := range row {
			rec = append(rec, formatFloat(v))
		}
		return rec
	})
}

func writeTable(path string, header []string, n int, record func(int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := w.Write(record(i)); err != nil {
			return fmt.Errorf("write %s row %d: %w", path, i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func movieRecord(m models.Movie) []string {
	return []string{
		strconv.Itoa(m.ID),
		m.Title,
		strconv.Itoa(m.ReleaseYear),
		strconv.Itoa(m.ReleaseMonth),
		m.ReleaseDay,
		formatFloat(m.Popularity),
		strconv.Itoa(m.VoteCount),
		formatFloat(m.VoteAverage),
		formatFloat(m.Budget),
		formatFloat(m.Revenue),
		formatFloat(m.Return),
		FormatIDList(m.GenreIDs),
		FormatIDList(m.ActorIDs),
		FormatIDList(m.DirectorIDs),
	}
}

// FormatIDList renders ids as a "[1, 2]" list literal.
func FormatIDList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
