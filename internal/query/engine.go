// Package query answers the point queries over the catalog. Every method
// is pure: unknown input yields a result with Found == false, never an error.
package query

import (
	"math"

	"moviehub/internal/catalog"
	"moviehub/pkg/models"
)

// MinVotesForAverage is the vote count from which vote_average is trusted.
const MinVotesForAverage = 2000

type Engine struct {
	Catalog *catalog.Catalog
}

func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{Catalog: c}
}

// FilmsPerMonth counts releases in a Spanish month name. A known month
// with no releases is a successful zero.
func (e *Engine) FilmsPerMonth(month string) models.MonthCount {
	month = catalog.NormalizeTitle(month)

	n, ok := catalog.MonthNumber(month)
	if !ok {
		return models.MonthCount{Month: month + " no existe"}
	}

	count := e.Catalog.CountByMonth(n)
	return models.MonthCount{Month: month, Count: &count, Found: true}
}

// FilmsPerDay counts releases on a weekday. Zero releases is reported as
// "no existe", the same as an unknown day name.
func (e *Engine) FilmsPerDay(day string) models.DayCount {
	day = catalog.NormalizeDay(day)

	count := e.Catalog.CountByDay(day)
	if count == 0 {
		return models.DayCount{Day: day + " no existe"}
	}
	return models.DayCount{Day: day, Count: &count, Found: true}
}

func (e *Engine) TitleScore(title string) models.TitleScore {
	title = catalog.NormalizeTitle(title)

	m, ok := e.Catalog.MovieByTitle(title)
	if !ok {
		return models.TitleScore{Title: "No se encontró " + title}
	}

	year, popularity := m.ReleaseYear, m.Popularity
	return models.TitleScore{
		Title:      catalog.TitleCase(title),
		Year:       &year,
		Popularity: &popularity,
		Found:      true,
	}
}

func (e *Engine) TitleVotes(title string) models.TitleVotes {
	title = catalog.NormalizeTitle(title)

	m, ok := e.Catalog.MovieByTitle(title)
	if !ok {
		return models.TitleVotes{Title: "No se encontró " + title}
	}

	year, votes := m.ReleaseYear, m.VoteCount
	out := models.TitleVotes{
		Title:     catalog.TitleCase(title),
		Year:      &year,
		VoteCount: &votes,
		Found:     true,
	}
	if votes >= MinVotesForAverage {
		avg := m.VoteAverage
		out.VoteAverage = &avg
	}
	return out
}

// ActorStats reports film count, total return and the average return of
// the films that have one. Films with a zero return count towards the
// total and the film count but not the average.
func (e *Engine) ActorStats(name string) models.ActorStats {
	display := catalog.TitleCase(catalog.NormalizeTitle(name))

	id, ok := e.Catalog.PersonID(catalog.Actor, name)
	if !ok {
		return models.ActorStats{Actor: display + " no existe"}
	}

	films := e.Catalog.MoviesWithPerson(catalog.Actor, id)

	var total, withReturn float64
	var n int
	for _, m := range films {
		total += m.Return
		if m.Return != 0 {
			withReturn += m.Return
			n++
		}
	}

	var avg float64
	if n > 0 {
		avg = round2(withReturn / float64(n))
	}

	count := len(films)
	return models.ActorStats{
		Actor:         display,
		FilmCount:     &count,
		TotalReturn:   &total,
		AverageReturn: &avg,
		Found:         true,
	}
}

// DirectorStats reports the director's total return and a per-film
// breakdown in catalog row order.
func (e *Engine) DirectorStats(name string) models.DirectorStats {
	display := catalog.TitleCase(catalog.NormalizeTitle(name))

	id, ok := e.Catalog.PersonID(catalog.Director, name)
	if !ok {
		return models.DirectorStats{Director: display + " no existe", Films: []models.DirectorFilm{}}
	}

	films := e.Catalog.MoviesWithPerson(catalog.Director, id)

	var total float64
	out := make([]models.DirectorFilm, 0, len(films))
	for _, m := range films {
		total += m.Return
		out = append(out, models.DirectorFilm{
			Title:   m.Title,
			Year:    m.ReleaseYear,
			Budget:  m.Budget,
			Revenue: m.Revenue,
			Return:  round2(m.Return),
		})
	}

	return models.DirectorStats{
		Director:    display,
		TotalReturn: &total,
		Films:       out,
		Found:       true,
	}
}

// round2 rounds half to even, so 0.625 becomes 0.62.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
