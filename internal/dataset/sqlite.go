package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"

	"moviehub/internal/recommend"
	"moviehub/pkg/models"
)

// SaveSQLite replaces the catalog tables in db with ds in a single
// transaction. The schema must already be applied (database.Migrate).
func SaveSQLite(ctx context.Context, db *sql.DB, ds *Dataset) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"movies", "genres", "actors", "directors", "weights"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := saveMovies(ctx, tx, ds.Tables.Movies); err != nil {
		return err
	}
	for table, rows := range map[string][]models.Named{
		"genres":    ds.Tables.Genres,
		"actors":    ds.Tables.Actors,
		"directors": ds.Tables.Directors,
	} {
		if err := saveDirectory(ctx, tx, table, rows); err != nil {
			return err
		}
	}
	if ds.Weights != nil {
		if err := saveWeights(ctx, tx, ds.Weights); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func saveMovies(ctx context.Context, tx *sql.Tx, movies []models.Movie) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (
		  id, row_order, title, release_year, release_month, release_day,
		  popularity, vote_count, vote_average, budget, revenue, return_ratio,
		  genres_id, actors_id, directors_id
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare movies: %w", err)
	}
	defer stmt.Close()

	for i, m := range movies {
		genres, actors, directors, err := marshalIDs(m)
		if err != nil {
			return fmt.Errorf("marshal ids for %d: %w", m.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			m.ID, i, m.Title, m.ReleaseYear, m.ReleaseMonth, m.ReleaseDay,
			m.Popularity, m.VoteCount, m.VoteAverage, m.Budget, m.Revenue, m.Return,
			genres, actors, directors,
		); err != nil {
			return fmt.Errorf("insert movie %d: %w", m.ID, err)
		}
	}
	return nil
}

func marshalIDs(m models.Movie) (string, string, string, error) {
	var out [3]string
	for i, ids := range [][]int{m.GenreIDs, m.ActorIDs, m.DirectorIDs} {
		if ids == nil {
			ids = []int{}
		}
		b, err := json.Marshal(ids)
		if err != nil {
			return "", "", "", err
		}
		out[i] = string(b)
	}
	return out[0], out[1], out[2], nil
}

func saveDirectory(ctx context.Context, tx *sql.Tx, table string, rows []models.Named) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO `+table+` (id, name) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", table, err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name); err != nil {
			return fmt.Errorf("insert %s %d: %w", table, r.ID, err)
		}
	}
	return nil
}

func saveWeights(ctx context.Context, tx *sql.Tx, m *recommend.Matrix) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO weights (movie_id, row_order, width, features) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare weights: %w", err)
	}
	defer stmt.Close()

	for i, id := range m.IDs() {
		row, _ := m.Features(id)
		b, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal weights for %d: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, m.Width(), string(b)); err != nil {
			return fmt.Errorf("insert weights %d: %w", id, err)
		}
	}
	return nil
}

// LoadSQLite reads the tables back in their original row order. A
// missing directory table or an empty movies table is ErrMissingTable.
// Weights is nil when the weights table is absent or empty.
func LoadSQLite(ctx context.Context, db *sql.DB) (*Dataset, error) {
	var ds Dataset
	var err error

	for _, table := range []string{"movies", "genres", "actors", "directors"} {
		ok, err := tableExists(ctx, db, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", table, ErrMissingTable)
		}
	}

	if ds.Tables.Movies, err = loadMovies(ctx, db); err != nil {
		return nil, err
	}
	if len(ds.Tables.Movies) == 0 {
		return nil, fmt.Errorf("movies is empty: %w", ErrMissingTable)
	}
	if ds.Tables.Genres, err = loadDirectory(ctx, db, "genres"); err != nil {
		return nil, err
	}
	if ds.Tables.Actors, err = loadDirectory(ctx, db, "actors"); err != nil {
		return nil, err
	}
	if ds.Tables.Directors, err = loadDirectory(ctx, db, "directors"); err != nil {
		return nil, err
	}
	hasWeights, err := tableExists(ctx, db, "weights")
	if err != nil {
		return nil, err
	}
	if hasWeights {
		if ds.Weights, err = loadWeights(ctx, db); err != nil {
			return nil, err
		}
	}
	return &ds, nil
}

func tableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return n > 0, nil
}

func loadMovies(ctx context.Context, db *sql.DB) ([]models.Movie, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, release_year, release_month, release_day,
		       popularity, vote_count, vote_average, budget, revenue, return_ratio,
		       genres_id, actors_id, directors_id
		FROM movies
		ORDER BY row_order
	`)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var out []models.Movie
	for rows.Next() {
		var (
			m                          models.Movie
			year, month, votes         sql.NullInt64
			day                        sql.NullString
			pop, avg, budget, rev, ret sql.NullFloat64
			genres, actors, directors  string
		)
		if err := rows.Scan(
			&m.ID, &m.Title, &year, &month, &day,
			&pop, &votes, &avg, &budget, &rev, &ret,
			&genres, &actors, &directors,
		); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}

		m.ReleaseYear = int(year.Int64)
		m.ReleaseMonth = int(month.Int64)
		m.ReleaseDay = day.String
		m.Popularity = pop.Float64
		m.VoteCount = int(votes.Int64)
		m.VoteAverage = avg.Float64
		m.Budget = budget.Float64
		m.Revenue = rev.Float64
		m.Return = ret.Float64

		if err := json.Unmarshal([]byte(genres), &m.GenreIDs); err != nil {
			return nil, fmt.Errorf("movie %d genres_id: %w", m.ID, err)
		}
		if err := json.Unmarshal([]byte(actors), &m.ActorIDs); err != nil {
			return nil, fmt.Errorf("movie %d actors_id: %w", m.ID, err)
		}
		if err := json.Unmarshal([]byte(directors), &m.DirectorIDs); err != nil {
			return nil, fmt.Errorf("movie %d directors_id: %w", m.ID, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func loadDirectory(ctx context.Context, db *sql.DB, table string) ([]models.Named, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []models.Named
	for rows.Next() {
		var n models.Named
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func loadWeights(ctx context.Context, db *sql.DB) (*recommend.Matrix, error) {
	rows, err := db.QueryContext(ctx, `SELECT movie_id, width, features FROM weights ORDER BY row_order`)
	if err != nil {
		return nil, fmt.Errorf("query weights: %w", err)
	}
	defer rows.Close()

	var (
		ids      []int
		features [][]recommend.Feature
		width    = -1
	)
	for rows.Next() {
		var (
			id, w int
			raw   string
			row   []recommend.Feature
		)
		if err := rows.Scan(&id, &w, &raw); err != nil {
			return nil, fmt.Errorf("scan weights: %w", err)
		}
		if width == -1 {
			width = w
		} else if w != width {
			return nil, fmt.Errorf("weights %d has width %d, want %d: %w", id, w, width, recommend.ErrRaggedMatrix)
		}
		if err := json.Unmarshal([]byte(raw), &row); err != nil {
			return nil, fmt.Errorf("weights %d: %w", id, err)
		}
		ids = append(ids, id)
		features = append(features, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}
	return recommend.NewSparseMatrix(ids, features, width)
}
