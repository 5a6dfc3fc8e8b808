package main

import (
	"context"
	"flag"
	"time"

	"moviehub/internal/app"
	"moviehub/internal/dataset"
	"moviehub/internal/recommend"
	"moviehub/pkg/database"
	"moviehub/pkg/logging"
	"moviehub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("config load failed")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	var (
		dir      = flag.String("dir", cfg.Data.Dir, "directory holding movies.csv, genres.csv, actors.csv, directors.csv")
		weights  = flag.String("weights", cfg.Data.WeightsFile, "optional precomputed weights CSV")
		dbPath   = flag.String("db", cfg.Data.DBPath, "output SQLite path")
		buildMat = flag.Bool("build-matrix", false, "derive and store a feature matrix when no weights file is found")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ds, err := dataset.LoadDir(*dir, *weights)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", *dir).Msg("load csv failed")
	}
	if ds.Weights == nil && *buildMat {
		ds.Weights, err = recommend.BuildMatrix(ds.Tables.Movies, app.FeatureWeights(cfg.Recommend))
		if err != nil {
			logging.Fatal().Err(err).Msg("build feature matrix failed")
		}
	}

	db := database.MustOpen(database.Config{Path: *dbPath})
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("db migrate failed")
	}
	if err := dataset.SaveSQLite(ctx, db, ds); err != nil {
		logging.Fatal().Err(err).Msg("import failed")
	}

	ev := logging.Info().
		Str("dir", *dir).
		Str("db", *dbPath).
		Int("movies", len(ds.Tables.Movies)).
		Int("genres", len(ds.Tables.Genres)).
		Int("actors", len(ds.Tables.Actors)).
		Int("directors", len(ds.Tables.Directors))
	if ds.Weights != nil {
		ev = ev.Int("matrix_rows", ds.Weights.Len())
	}
	ev.Msg("imported catalog")
}
