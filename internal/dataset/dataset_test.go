package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"moviehub/internal/recommend"
	"moviehub/pkg/database"
	"moviehub/pkg/models"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, MoviesFile, `id,title,release_year,release_month,release_day,popularity,vote_count,vote_average,budget,revenue,genres_id,actors_id,directors_id
862,toy story,1995,10,lunes,21.94,5415,7.7,30000000,373554033,"[16, 35]","[31, 12898]",[7879]
8844,jumanji,1995.0,12,viernes,17.01,2413,6.9,65000000,262797249,[12],[2157],[4945]
15602,grumpier old men,1995,12,viernes,11.71,92,6.5,0,0,[],[],[]
`)
	writeFile(t, dir, GenresFile, "genre,id\nanimation,16\ncomedy,35\nadventure,12\n")
	writeFile(t, dir, ActorsFile, "actor,id\ntom hanks,31\ntim allen,12898\nrobin williams,2157\n")
	writeFile(t, dir, DirectorsFile, "director,id\njohn lasseter,7879\njoe johnston,4945\n")
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeFixture(t)

	ds, err := LoadDir(dir, "")
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if ds.Weights != nil {
		t.Error("Weights set without a weights file")
	}
	if len(ds.Tables.Movies) != 3 || len(ds.Tables.Genres) != 3 || len(ds.Tables.Actors) != 3 || len(ds.Tables.Directors) != 2 {
		t.Fatalf("table sizes = %d/%d/%d/%d", len(ds.Tables.Movies), len(ds.Tables.Genres), len(ds.Tables.Actors), len(ds.Tables.Directors))
	}

	toy := ds.Tables.Movies[0]
	if toy.ID != 862 || toy.Title != "toy story" || toy.ReleaseMonth != 10 || toy.VoteCount != 5415 {
		t.Errorf("movie 0 = %+v", toy)
	}
	if !reflect.DeepEqual(toy.GenreIDs, []int{16, 35}) || !reflect.DeepEqual(toy.ActorIDs, []int{31, 12898}) {
		t.Errorf("id sets = %v / %v", toy.GenreIDs, toy.ActorIDs)
	}
	if want := 373554033.0 / 30000000.0; toy.Return != want {
		t.Errorf("derived return = %v, want %v", toy.Return, want)
	}
	if jumanji := ds.Tables.Movies[1]; jumanji.ReleaseYear != 1995 {
		t.Errorf("float year parsed as %d", jumanji.ReleaseYear)
	}
	if grumpy := ds.Tables.Movies[2]; grumpy.Return != 0 || grumpy.GenreIDs != nil {
		t.Errorf("zero budget movie = %+v", grumpy)
	}
}

func TestLoadDir_Weights(t *testing.T) {
	dir := writeFixture(t)
	writeFile(t, dir, WeightsFile, "id,f0,f1\n862,1,0.5\n8844,0,1\n")

	ds, err := LoadDir(dir, "")
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if ds.Weights == nil || ds.Weights.Len() != 2 || ds.Weights.Width() != 2 {
		t.Fatalf("Weights = %+v", ds.Weights)
	}
	row, _ := ds.Weights.Row(862)
	if !reflect.DeepEqual(row, []float64{1, 0.5}) {
		t.Errorf("Row(862) = %v", row)
	}
}

func TestLoadDir_Faults(t *testing.T) {
	t.Run("missing movies", func(t *testing.T) {
		dir := writeFixture(t)
		_ = os.Remove(filepath.Join(dir, MoviesFile))
		if _, err := LoadDir(dir, ""); !errors.Is(err, ErrMissingTable) {
			t.Errorf("err = %v, want ErrMissingTable", err)
		}
	})

	t.Run("explicit weights file missing", func(t *testing.T) {
		dir := writeFixture(t)
		if _, err := LoadDir(dir, filepath.Join(dir, "nope.csv")); !errors.Is(err, ErrMissingTable) {
			t.Errorf("err = %v, want ErrMissingTable", err)
		}
	})

	t.Run("ragged weights", func(t *testing.T) {
		dir := writeFixture(t)
		writeFile(t, dir, WeightsFile, "id,f0,f1\n862,1,0.5\n8844,0\n")
		if _, err := LoadDir(dir, ""); !errors.Is(err, recommend.ErrRaggedMatrix) {
			t.Errorf("err = %v, want ErrRaggedMatrix", err)
		}
	})

	t.Run("bad number", func(t *testing.T) {
		dir := writeFixture(t)
		writeFile(t, dir, MoviesFile, "id,title,vote_count\n1,a,many\n")
		if _, err := LoadDir(dir, ""); err == nil {
			t.Error("LoadDir() accepted a non numeric vote_count")
		}
	})

	t.Run("missing name column", func(t *testing.T) {
		dir := writeFixture(t)
		writeFile(t, dir, ActorsFile, "name,id\na,1\n")
		if _, err := LoadDir(dir, ""); err == nil {
			t.Error("LoadDir() accepted actors.csv without an actor column")
		}
	})
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"[1, 2, 3]", []int{1, 2, 3}, false},
		{"[7879]", []int{7879}, false},
		{"4,5", []int{4, 5}, false},
		{"['9', '10']", []int{9, 10}, false},
		{"[]", nil, false},
		{"", nil, false},
		{"[1, x]", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseIDList(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIDList(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseIDList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteDir_ReadBack(t *testing.T) {
	ds, err := LoadDir(writeFixture(t), "")
	if err != nil {
		t.Fatal(err)
	}
	ds.Weights, err = recommend.BuildMatrix(ds.Tables.Movies, recommend.DefaultFeatureWeights())
	if err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	if err := WriteDir(out, ds); err != nil {
		t.Fatalf("WriteDir() error = %v", err)
	}
	back, err := LoadDir(out, "")
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if !reflect.DeepEqual(back.Tables.Movies[0], ds.Tables.Movies[0]) {
		t.Errorf("movie changed:\n got %+v\nwant %+v", back.Tables.Movies[0], ds.Tables.Movies[0])
	}
	if back.Weights == nil || !reflect.DeepEqual(back.Weights.IDs(), ds.Weights.IDs()) {
		t.Errorf("weights ids = %v", back.Weights)
	}
}

func TestSQLite_SaveLoad(t *testing.T) {
	ctx := context.Background()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	ds, err := LoadDir(writeFixture(t), "")
	if err != nil {
		t.Fatal(err)
	}
	ds.Weights, _ = recommend.NewMatrix([]int{8844, 862}, [][]float64{{0, 1}, {1, 0.5}})

	if err := SaveSQLite(ctx, db, ds); err != nil {
		t.Fatalf("SaveSQLite() error = %v", err)
	}
	// saving twice replaces instead of duplicating
	if err := SaveSQLite(ctx, db, ds); err != nil {
		t.Fatalf("second SaveSQLite() error = %v", err)
	}

	got, err := LoadSQLite(ctx, db)
	if err != nil {
		t.Fatalf("LoadSQLite() error = %v", err)
	}
	if len(got.Tables.Movies) != 3 {
		t.Fatalf("movies = %d, want 3", len(got.Tables.Movies))
	}
	for i, m := range got.Tables.Movies {
		want := ds.Tables.Movies[i]
		if m.ID != want.ID || m.Title != want.Title || m.Return != want.Return || len(m.ActorIDs) != len(want.ActorIDs) {
			t.Errorf("movie %d = %+v, want %+v", i, m, want)
		}
	}
	if len(got.Tables.Actors) != 3 || len(got.Tables.Genres) != 3 || len(got.Tables.Directors) != 2 {
		t.Errorf("directories = %d/%d/%d", len(got.Tables.Actors), len(got.Tables.Genres), len(got.Tables.Directors))
	}
	if got.Weights == nil || !reflect.DeepEqual(got.Weights.IDs(), []int{8844, 862}) {
		t.Errorf("weights row order not kept: %v", got.Weights)
	}
	if row, _ := got.Weights.Row(862); !reflect.DeepEqual(row, []float64{1, 0.5}) {
		t.Errorf("Row(862) = %v after round trip", row)
	}
	if row, _ := got.Weights.Row(8844); !reflect.DeepEqual(row, []float64{0, 1}) {
		t.Errorf("Row(8844) = %v after round trip", row)
	}
}

func TestSQLite_EmptyWeights(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "catalog.db")})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}

	ds := &Dataset{}
	ds.Tables.Movies = []models.Movie{{ID: 1, Title: "a"}}
	if err := SaveSQLite(ctx, db, ds); err != nil {
		t.Fatal(err)
	}
	got, err := LoadSQLite(ctx, db)
	if err != nil {
		t.Fatal(err)
	}
	if got.Weights != nil {
		t.Error("Weights set from an empty table")
	}
	if n := len(got.Tables.Movies[0].GenreIDs); n != 0 {
		t.Errorf("genres = %d ids, want none", n)
	}
}

func TestLoadSQLite_MissingTables(t *testing.T) {
	ctx := context.Background()

	t.Run("no schema", func(t *testing.T) {
		db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "bare.db")})
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		if _, err := LoadSQLite(ctx, db); !errors.Is(err, ErrMissingTable) {
			t.Errorf("LoadSQLite() error = %v, want ErrMissingTable", err)
		}
	})

	t.Run("empty movies", func(t *testing.T) {
		db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "empty.db")})
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSQLite(ctx, db); !errors.Is(err, ErrMissingTable) {
			t.Errorf("LoadSQLite() error = %v, want ErrMissingTable", err)
		}
	})
}
