package recommend

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"moviehub/internal/catalog"
	"moviehub/pkg/models"
)

func newTestEngine(t *testing.T, limit int) *Engine {
	t.Helper()
	titles := []string{"query", "near one", "near two", "far", "zebra", "apple", "mid", "orphan"}
	movies := make([]models.Movie, len(titles))
	for i, title := range titles {
		movies[i] = models.Movie{ID: i + 1, Title: title}
	}
	c, err := catalog.New(catalog.Tables{Movies: movies})
	if err != nil {
		t.Fatal(err)
	}

	// "orphan" (8) has no row
	m, err := NewMatrix(
		[]int{1, 2, 3, 4, 5, 6, 7},
		[][]float64{
			{1, 1, 0},   // query
			{1, 1, 0},   // near one: 1.0
			{1, 0.9, 0}, // near two
			{0, 0, 1},   // far: 0
			{1, 0, 0},   // zebra: 0.707
			{0, 1, 0},   // apple: 0.707
			{1, 1, 1},   // mid: 0.816
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	e, err := NewEngine(c, m, Options{Limit: limit, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestRecommend(t *testing.T) {
	e := newTestEngine(t, 0)

	got := e.Recommend("QUERY")
	if got.Status != models.Recommended {
		t.Fatalf("Status = %v", got.Status)
	}
	want := []string{"Apple", "Mid", "Near One", "Near Two", "Zebra"}
	if len(got.Titles) != len(want) {
		t.Fatalf("Titles = %v, want %v", got.Titles, want)
	}
	for i := range want {
		if got.Titles[i] != want[i] {
			t.Fatalf("Titles = %v, want %v", got.Titles, want)
		}
	}
	if !sort.StringsAreSorted(got.Titles) {
		t.Error("titles not sorted")
	}
	for _, title := range got.Titles {
		if title == "Query" {
			t.Error("query movie recommended to itself")
		}
	}
}

func TestRecommend_Outcomes(t *testing.T) {
	e := newTestEngine(t, 5)

	if got := e.Recommend("missing"); got.Status != models.MovieNotFound || got.Titles != nil {
		t.Errorf("Recommend(missing) = %+v, want MovieNotFound", got)
	}
	if got := e.Recommend("orphan"); got.Status != models.InsufficientData {
		t.Errorf("Recommend(orphan) = %+v, want InsufficientData", got)
	}
}

func TestRecommend_ExcludesSelfEvenWhenTied(t *testing.T) {
	// "near one" has an identical vector and sits in an earlier row than the query.
	e := newTestEngine(t, 3)
	got := e.Recommend("near one")
	for _, title := range got.Titles {
		if title == "Near One" {
			t.Fatalf("Titles = %v includes the query movie", got.Titles)
		}
	}
	if len(got.Titles) != 3 {
		t.Errorf("len(Titles) = %d, want 3", len(got.Titles))
	}
}

func TestSimilar_Ranking(t *testing.T) {
	e := newTestEngine(t, 5)

	top, ok := e.Similar(1, 100)
	if !ok {
		t.Fatal("Similar(1) not ok")
	}
	if len(top) != 6 {
		t.Fatalf("len = %d, want every other row", len(top))
	}
	if top[0].MovieID != 2 || top[0].Similarity < 0.999 {
		t.Errorf("top[0] = %+v, want identical movie 2", top[0])
	}
	if last := top[len(top)-1]; last.MovieID != 4 || last.Similarity != 0 {
		t.Errorf("last = %+v, want orthogonal movie 4", last)
	}
	// zebra and apple tie; the earlier row ranks first
	for i := 1; i < len(top); i++ {
		if top[i].Similarity > top[i-1].Similarity {
			t.Fatalf("not sorted descending at %d: %+v", i, top)
		}
	}
	var zebra, apple int
	for i, s := range top {
		switch s.MovieID {
		case 5:
			zebra = i
		case 6:
			apple = i
		}
	}
	if zebra > apple {
		t.Errorf("tie broken against row order: zebra at %d, apple at %d", zebra, apple)
	}
}

func TestNewEngine_UnknownRow(t *testing.T) {
	c, _ := catalog.New(catalog.Tables{Movies: []models.Movie{{ID: 1, Title: "a"}}})
	m, _ := NewMatrix([]int{1, 2}, [][]float64{{1}, {1}})
	if _, err := NewEngine(c, m, Options{}); !errors.Is(err, ErrUnknownMovie) {
		t.Errorf("NewEngine() error = %v, want ErrUnknownMovie", err)
	}
}

func TestScores_ParallelMatchesSequential(t *testing.T) {
	const n = parallelThreshold + 123
	rng := rand.New(rand.NewSource(7))

	movies := make([]models.Movie, n)
	ids := make([]int, n)
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		movies[i] = models.Movie{ID: i + 1, Title: "m" + string(rune('a'+i%26)) + string(rune('a'+i/26%26)) + string(rune('a'+i/676))}
		ids[i] = i + 1
		rows[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64()}
	}
	c, err := catalog.New(catalog.Tables{Movies: movies})
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMatrix(ids, rows)
	if err != nil {
		t.Fatal(err)
	}

	seq, _ := NewEngine(c, m, Options{Workers: 1})
	par, _ := NewEngine(c, m, Options{Workers: 8})

	a, b := seq.scores(0), par.scores(0)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("score %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}
