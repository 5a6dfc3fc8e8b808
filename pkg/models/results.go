package models

import (
	"github.com/goccy/go-json"
)

// The result records below mirror the public JSON API. Found is never
// serialized; it lets transports tell a typed "not found" apart without
// looking at the message text.

type MonthCount struct {
	Month string `json:"mes"`
	Count *int   `json:"cantidad"`
	Found bool   `json:"-"`
}

type DayCount struct {
	Day   string `json:"dia"`
	Count *int   `json:"cantidad"`
	Found bool   `json:"-"`
}

type TitleScore struct {
	Title      string   `json:"titulo"`
	Year       *int     `json:"anio"`
	Popularity *float64 `json:"popularidad"`
	Found      bool     `json:"-"`
}

type TitleVotes struct {
	Title       string   `json:"titulo"`
	Year        *int     `json:"anio"`
	VoteCount   *int     `json:"voto_total"`
	VoteAverage *float64 `json:"voto_promedio"` // nil below the vote threshold
	Found       bool     `json:"-"`
}

type ActorStats struct {
	Actor         string   `json:"actor"`
	FilmCount     *int     `json:"cantidad_filmaciones"`
	TotalReturn   *float64 `json:"retorno_total"`
	AverageReturn *float64 `json:"retorno_promedio"`
	Found         bool     `json:"-"`
}

type DirectorFilm struct {
	Title   string  `json:"titulo"`
	Year    int     `json:"anio"`
	Budget  float64 `json:"budget_pelicula"`
	Revenue float64 `json:"revenue_pelicula"`
	Return  float64 `json:"retorno_pelicula"`
}

type DirectorStats struct {
	Director    string         `json:"director"`
	TotalReturn *float64       `json:"retorno_total_director"`
	Films       []DirectorFilm `json:"peliculas"`
	Found       bool           `json:"-"`
}

// RecommendationStatus is the outcome of a similarity query.
type RecommendationStatus int

const (
	Recommended RecommendationStatus = iota
	MovieNotFound
	InsufficientData
)

const (
	MovieNotFoundMessage    = "No se encontró la película"
	InsufficientDataMessage = "No hay suficiente información de esta película para hacer alguna recomendación"
)

func (s RecommendationStatus) String() string {
	switch s {
	case Recommended:
		return "recommended"
	case MovieNotFound:
		return "not_found"
	case InsufficientData:
		return "insufficient_data"
	default:
		return "unknown"
	}
}

// Recommendation holds up to N alphabetically sorted titles, or the
// reason none could be produced.
type Recommendation struct {
	Status RecommendationStatus
	Titles []string
}

func (r Recommendation) Found() bool { return r.Status == Recommended }

// MarshalJSON renders {"lista recomendada": [...]} on success and the
// outcome message in the same key otherwise.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	var v any
	switch r.Status {
	case Recommended:
		titles := r.Titles
		if titles == nil {
			titles = []string{}
		}
		v = titles
	case InsufficientData:
		v = InsufficientDataMessage
	default:
		v = MovieNotFoundMessage
	}
	return json.Marshal(map[string]any{"lista recomendada": v})
}
