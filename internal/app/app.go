// Package app assembles the catalog and both engines from configuration.
// Every binary that serves queries goes through Build.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"moviehub/internal/catalog"
	"moviehub/internal/dataset"
	"moviehub/internal/query"
	"moviehub/internal/recommend"
	"moviehub/pkg/database"
	"moviehub/pkg/logging"
	"moviehub/pkg/utils"
)

type App struct {
	Catalog   *catalog.Catalog
	Query     *query.Engine
	Recommend *recommend.Engine

	// Source is "csv:<dir>" or "sqlite:<path>", reported by /health.
	Source   string
	LoadedAt time.Time
}

// Build loads the dataset named by cfg.Data and wires the engines. When
// no precomputed matrix is available one is derived from the movies'
// genre, cast and director ids.
func Build(ctx context.Context, cfg utils.Config) (*App, error) {
	start := time.Now()

	ds, source, err := load(ctx, cfg.Data)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.New(ds.Tables)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	matrix := ds.Weights
	if matrix == nil {
		matrix, err = recommend.BuildMatrix(ds.Tables.Movies, FeatureWeights(cfg.Recommend))
		if err != nil {
			return nil, fmt.Errorf("build feature matrix: %w", err)
		}
		logging.Info().Int("rows", matrix.Len()).Int("width", matrix.Width()).Msg("feature matrix derived")
	}

	rec, err := recommend.NewEngine(cat, matrix, recommend.Options{
		Limit:   cfg.Recommend.Limit,
		Workers: cfg.Recommend.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("build recommender: %w", err)
	}

	logging.Info().
		Str("source", source).
		Int("movies", cat.Len()).
		Int("matrix_rows", matrix.Len()).
		Dur("took", time.Since(start)).
		Msg("catalog loaded")

	return &App{
		Catalog:   cat,
		Query:     query.NewEngine(cat),
		Recommend: rec,
		Source:    source,
		LoadedAt:  time.Now(),
	}, nil
}

func FeatureWeights(cfg utils.RecommendConfig) recommend.FeatureWeights {
	return recommend.FeatureWeights{
		Genre:    cfg.GenreWeight,
		Actor:    cfg.ActorWeight,
		Director: cfg.DirectorWeight,
	}
}

func load(ctx context.Context, cfg utils.DataConfig) (*dataset.Dataset, string, error) {
	switch cfg.Source {
	case "sqlite":
		// the catalog is written by import-csv; never create it here
		if _, err := os.Stat(cfg.DBPath); err != nil {
			return nil, "", fmt.Errorf("sqlite catalog %s: %w", cfg.DBPath, err)
		}
		db, err := database.Open(database.Config{Path: cfg.DBPath})
		if err != nil {
			return nil, "", err
		}
		defer db.Close()

		ds, err := dataset.LoadSQLite(ctx, db)
		if err != nil {
			return nil, "", fmt.Errorf("load sqlite %s: %w", cfg.DBPath, err)
		}
		return ds, "sqlite:" + cfg.DBPath, nil
	default:
		ds, err := dataset.LoadDir(cfg.Dir, cfg.WeightsFile)
		if err != nil {
			return nil, "", fmt.Errorf("load csv %s: %w", cfg.Dir, err)
		}
		return ds, "csv:" + cfg.Dir, nil
	}
}
