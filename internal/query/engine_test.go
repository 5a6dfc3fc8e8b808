package query

import (
	"math"
	"testing"

	"moviehub/internal/catalog"
	"moviehub/pkg/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	c, err := catalog.New(catalog.Tables{
		Movies: []models.Movie{
			{ID: 1, Title: "alpha", ReleaseYear: 1995, ReleaseMonth: 3, ReleaseDay: "lunes", Popularity: 21.9, VoteCount: 5415, VoteAverage: 7.7, Budget: 100, Revenue: 0, Return: 0, ActorIDs: []int{1}, DirectorIDs: []int{1}},
			{ID: 2, Title: "beta", ReleaseYear: 1996, ReleaseMonth: 3, ReleaseDay: "martes", Popularity: 3.5, VoteCount: 1999, VoteAverage: 6.1, Budget: 10, Revenue: 20, Return: 2.0, ActorIDs: []int{1, 2}, DirectorIDs: []int{1}},
			{ID: 3, Title: "gamma", ReleaseYear: 1997, ReleaseMonth: 7, ReleaseDay: "miércoles", Popularity: 1, VoteCount: 2000, VoteAverage: 5.5, Budget: 10, Revenue: 40, Return: 4.0, ActorIDs: []int{1}, DirectorIDs: []int{2}},
			{ID: 4, Title: "delta", ReleaseYear: 1998, ReleaseMonth: 7, ReleaseDay: "sábado", Return: 1.0 / 3.0, ActorIDs: []int{3}, DirectorIDs: []int{2}},
		},
		Actors:    []models.Named{{ID: 1, Name: "x actor"}, {ID: 2, Name: "y actor"}, {ID: 3, Name: "z actor"}, {ID: 4, Name: "idle actor"}},
		Directors: []models.Named{{ID: 1, Name: "d one"}, {ID: 2, Name: "d two"}, {ID: 3, Name: "d idle"}},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return NewEngine(c)
}

func TestFilmsPerMonth(t *testing.T) {
	e := newTestEngine(t)

	got := e.FilmsPerMonth("Marzo")
	if !got.Found || got.Count == nil || *got.Count != 2 || got.Month != "marzo" {
		t.Errorf("FilmsPerMonth(Marzo) = %+v, want marzo/2", got)
	}

	got = e.FilmsPerMonth("enero")
	if !got.Found || got.Count == nil || *got.Count != 0 {
		t.Errorf("FilmsPerMonth(enero) = %+v, want found with count 0", got)
	}

	for _, in := range []string{"invalidname", "INVALIDNAME", "March"} {
		got = e.FilmsPerMonth(in)
		if got.Found || got.Count != nil {
			t.Errorf("FilmsPerMonth(%q) = %+v, want not found", in, got)
		}
	}
	if got := e.FilmsPerMonth("Foo"); got.Month != "foo no existe" {
		t.Errorf("not found month label = %q", got.Month)
	}
}

func TestFilmsPerMonth_MatchesDirectCount(t *testing.T) {
	e := newTestEngine(t)
	for n := 1; n <= 12; n++ {
		name, _ := catalog.MonthName(n)
		want := 0
		for _, m := range e.Catalog.Movies() {
			if m.ReleaseMonth == n {
				want++
			}
		}
		got := e.FilmsPerMonth(name)
		if got.Count == nil || *got.Count != want {
			t.Errorf("FilmsPerMonth(%s) = %v, want %d", name, got.Count, want)
		}
	}
}

func TestFilmsPerDay(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		in        string
		wantDay   string
		wantCount int // 0 means not found
	}{
		{"lunes", "lunes", 1},
		{"LUNES", "lunes", 1},
		{"miércoles", "miercoles", 1},
		{"miercoles", "miercoles", 1},
		{"Sábado", "sabado", 1},
		{"jueves", "jueves no existe", 0},
		{"notaday", "notaday no existe", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := e.FilmsPerDay(tt.in)
			if got.Day != tt.wantDay {
				t.Errorf("Day = %q, want %q", got.Day, tt.wantDay)
			}
			if tt.wantCount == 0 {
				if got.Found || got.Count != nil {
					t.Errorf("got %+v, want null count", got)
				}
				return
			}
			if !got.Found || got.Count == nil || *got.Count != tt.wantCount {
				t.Errorf("got %+v, want count %d", got, tt.wantCount)
			}
		})
	}
}

func TestTitleScore(t *testing.T) {
	e := newTestEngine(t)

	got := e.TitleScore("ALPHA")
	if !got.Found || got.Title != "Alpha" || *got.Year != 1995 || *got.Popularity != 21.9 {
		t.Errorf("TitleScore(ALPHA) = %+v", got)
	}

	got = e.TitleScore("Missing")
	if got.Found || got.Year != nil || got.Popularity != nil || got.Title != "No se encontró missing" {
		t.Errorf("TitleScore(Missing) = %+v", got)
	}
}

func TestTitleVotes_Threshold(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		title     string
		votes     int
		wantAvg   bool
		wantValue float64
	}{
		{"alpha", 5415, true, 7.7},
		{"beta", 1999, false, 0},
		{"gamma", 2000, true, 5.5},
		{"delta", 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := e.TitleVotes(tt.title)
			if !got.Found || got.VoteCount == nil || *got.VoteCount != tt.votes {
				t.Fatalf("TitleVotes(%s) = %+v", tt.title, got)
			}
			if tt.wantAvg {
				if got.VoteAverage == nil || *got.VoteAverage != tt.wantValue {
					t.Errorf("VoteAverage = %v, want %v", got.VoteAverage, tt.wantValue)
				}
			} else if got.VoteAverage != nil {
				t.Errorf("VoteAverage = %v, want nil under %d votes", *got.VoteAverage, MinVotesForAverage)
			}
		})
	}

	if got := e.TitleVotes("nope"); got.Found || got.VoteCount != nil || got.VoteAverage != nil || got.Year != nil {
		t.Errorf("TitleVotes(nope) = %+v", got)
	}
}

func TestActorStats(t *testing.T) {
	e := newTestEngine(t)

	// returns 0, 2.0 and 4.0
	got := e.ActorStats("X Actor")
	if !got.Found || got.Actor != "X Actor" {
		t.Fatalf("ActorStats(X Actor) = %+v", got)
	}
	if *got.FilmCount != 3 || *got.TotalReturn != 6.0 || *got.AverageReturn != 3.0 {
		t.Errorf("ActorStats = count %d total %v avg %v, want 3/6/3", *got.FilmCount, *got.TotalReturn, *got.AverageReturn)
	}

	got = e.ActorStats("z actor")
	if *got.AverageReturn != 0.33 {
		t.Errorf("average not rounded to 2 decimals: %v", *got.AverageReturn)
	}

	got = e.ActorStats("idle actor")
	if !got.Found || *got.FilmCount != 0 || *got.TotalReturn != 0 || *got.AverageReturn != 0 {
		t.Errorf("ActorStats(idle actor) = %+v, want zeros", got)
	}

	got = e.ActorStats("nobody here")
	if got.Found || got.FilmCount != nil || got.TotalReturn != nil || got.AverageReturn != nil {
		t.Errorf("ActorStats(nobody here) = %+v, want nulls", got)
	}
	if got.Actor != "Nobody Here no existe" {
		t.Errorf("not found label = %q", got.Actor)
	}
}

func TestActorStats_OnlyZeroReturns(t *testing.T) {
	c, err := catalog.New(catalog.Tables{
		Movies: []models.Movie{{ID: 1, Title: "a", ActorIDs: []int{1}}, {ID: 2, Title: "b", ActorIDs: []int{1}}},
		Actors: []models.Named{{ID: 1, Name: "a"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := NewEngine(c).ActorStats("a")
	if *got.FilmCount != 2 || *got.AverageReturn != 0 || math.IsNaN(*got.AverageReturn) {
		t.Errorf("ActorStats = %+v, want count 2 avg 0", got)
	}
}

func TestDirectorStats(t *testing.T) {
	e := newTestEngine(t)

	got := e.DirectorStats("D TWO")
	if !got.Found || got.Director != "D Two" {
		t.Fatalf("DirectorStats(D TWO) = %+v", got)
	}
	if math.Abs(*got.TotalReturn-(4.0+1.0/3.0)) > 1e-9 {
		t.Errorf("TotalReturn = %v", *got.TotalReturn)
	}
	if len(got.Films) != 2 || got.Films[0].Title != "gamma" || got.Films[1].Title != "delta" {
		t.Fatalf("Films = %+v, want gamma then delta", got.Films)
	}
	if got.Films[1].Return != 0.33 {
		t.Errorf("per-film return = %v, want 0.33", got.Films[1].Return)
	}
	if got.Films[0].Budget != 10 || got.Films[0].Revenue != 40 || got.Films[0].Year != 1997 {
		t.Errorf("film record = %+v", got.Films[0])
	}

	got = e.DirectorStats("d idle")
	if !got.Found || *got.TotalReturn != 0 || got.Films == nil || len(got.Films) != 0 {
		t.Errorf("DirectorStats(d idle) = %+v, want zero total and empty list", got)
	}

	got = e.DirectorStats("ghost")
	if got.Found || got.TotalReturn != nil || got.Films == nil || len(got.Films) != 0 {
		t.Errorf("DirectorStats(ghost) = %+v", got)
	}
}

func TestReturnsRoundHalfToEven(t *testing.T) {
	c, err := catalog.New(catalog.Tables{
		Movies: []models.Movie{
			{ID: 1, Title: "eighths", Return: 0.625, ActorIDs: []int{1}, DirectorIDs: []int{1}},
			{ID: 2, Title: "small", Return: 0.125, ActorIDs: []int{2}, DirectorIDs: []int{1}},
		},
		Actors:    []models.Named{{ID: 1, Name: "five eighths"}, {ID: 2, Name: "one eighth"}},
		Directors: []models.Named{{ID: 1, Name: "even"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(c)

	tests := []struct {
		actor string
		want  float64
	}{
		{"five eighths", 0.62},
		{"one eighth", 0.12},
	}
	for _, tt := range tests {
		if got := e.ActorStats(tt.actor); *got.AverageReturn != tt.want {
			t.Errorf("ActorStats(%q) avg = %v, want %v", tt.actor, *got.AverageReturn, tt.want)
		}
	}

	got := e.DirectorStats("even")
	if len(got.Films) != 2 || got.Films[0].Return != 0.62 || got.Films[1].Return != 0.12 {
		t.Errorf("DirectorStats(even) films = %+v, want returns 0.62 and 0.12", got.Films)
	}
}
