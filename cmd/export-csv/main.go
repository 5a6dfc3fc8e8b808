package main

import (
	"context"
	"flag"
	"os"
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
		dbPath      = flag.String("db", cfg.Data.DBPath, "input SQLite path")
		out         = flag.String("out", "export", "output directory")
		withMatrix  = flag.Bool("build-matrix", false, "write a derived weights.csv when the database holds none")
		weightsOnly = flag.String("weights", "", "write only the weights matrix to this CSV path")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := os.Stat(*dbPath); err != nil {
		logging.Fatal().Err(err).Str("db", *dbPath).Msg("input database not found")
	}
	db := database.MustOpen(database.Config{Path: *dbPath})
	defer db.Close()

	ds, err := dataset.LoadSQLite(ctx, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("load sqlite failed")
	}
	if ds.Weights == nil && (*withMatrix || *weightsOnly != "") {
		ds.Weights, err = recommend.BuildMatrix(ds.Tables.Movies, app.FeatureWeights(cfg.Recommend))
		if err != nil {
			logging.Fatal().Err(err).Msg("build feature matrix failed")
		}
	}

	if *weightsOnly != "" {
		if err := dataset.WriteWeights(*weightsOnly, ds.Weights); err != nil {
			logging.Fatal().Err(err).Msg("export weights failed")
		}
		logging.Info().Str("path", *weightsOnly).Int("rows", ds.Weights.Len()).Msg("exported weights")
		return
	}

	if err := dataset.WriteDir(*out, ds); err != nil {
		logging.Fatal().Err(err).Msg("export failed")
	}
	logging.Info().Str("db", *dbPath).Str("out", *out).Int("movies", len(ds.Tables.Movies)).Msg("exported catalog")
}
