package movies

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"moviehub/internal/metrics"
	"moviehub/internal/query"
	"moviehub/internal/recommend"
	"moviehub/pkg/models"
)

// Operation names shared by the session and CLI transports.
const (
	OpMonth     = "mes"
	OpDay       = "dia"
	OpScore     = "score"
	OpVotes     = "votos"
	OpActor     = "actor"
	OpDirector  = "director"
	OpRecommend = "recomendacion"
)

var (
	ErrUnknownOp     = errors.New("unknown operation")
	ErrEmptyArgument = errors.New("argument required")
)

// Service is the read-only façade over both engines. Every call is
// counted in the metrics package.
type Service struct {
	Query     *query.Engine
	Recommend *recommend.Engine
}

func NewService(q *query.Engine, r *recommend.Engine) *Service {
	return &Service{Query: q, Recommend: r}
}

func (s *Service) FilmsPerMonth(month string) models.MonthCount {
	r := s.Query.FilmsPerMonth(month)
	metrics.RecordQuery(OpMonth, r.Found)
	return r
}

func (s *Service) FilmsPerDay(day string) models.DayCount {
	r := s.Query.FilmsPerDay(day)
	metrics.RecordQuery(OpDay, r.Found)
	return r
}

func (s *Service) TitleScore(title string) models.TitleScore {
	r := s.Query.TitleScore(title)
	metrics.RecordQuery(OpScore, r.Found)
	return r
}

func (s *Service) TitleVotes(title string) models.TitleVotes {
	r := s.Query.TitleVotes(title)
	metrics.RecordQuery(OpVotes, r.Found)
	return r
}

func (s *Service) ActorStats(name string) models.ActorStats {
	r := s.Query.ActorStats(name)
	metrics.RecordQuery(OpActor, r.Found)
	return r
}

func (s *Service) DirectorStats(name string) models.DirectorStats {
	r := s.Query.DirectorStats(name)
	metrics.RecordQuery(OpDirector, r.Found)
	return r
}

func (s *Service) Recommendation(title string) models.Recommendation {
	start := time.Now()
	r := s.Recommend.Recommend(title)
	metrics.RecordRecommendation(r.Status.String(), time.Since(start))
	return r
}

// Run dispatches op by name. The result is one of the models result
// records; not-found outcomes are results, not errors.
func (s *Service) Run(op, arg string) (any, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyArgument)
	}
	switch op {
	case OpMonth:
		return s.FilmsPerMonth(arg), nil
	case OpDay:
		return s.FilmsPerDay(arg), nil
	case OpScore:
		return s.TitleScore(arg), nil
	case OpVotes:
		return s.TitleVotes(arg), nil
	case OpActor:
		return s.ActorStats(arg), nil
	case OpDirector:
		return s.DirectorStats(arg), nil
	case OpRecommend:
		return s.Recommendation(arg), nil
	default:
		return nil, fmt.Errorf("%q: %w", op, ErrUnknownOp)
	}
}

// Info is the payload of GET /.
type Info struct {
	Info      string   `json:"info"`
	Functions []string `json:"funciones"`
	Genres    []string `json:"generos"`
}

func (s *Service) Info() Info {
	genres := s.Query.Catalog.Genres()
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return Info{
		Info: "Bienvenidos a mi API de Películas",
		Functions: []string{
			"cantidad_filmaciones_mes/(ingrese un mes)",
			"cantidad_filmaciones_dia/(ingrese un dia)",
			"score_titulo/(ingrese una película)",
			"votos_titulo/(ingrese una película)",
			"get_actor/(ingrese un actor)",
			"get_director/(ingrese un director)",
			"recomendacion/(ingrese una película)",
		},
		Genres: names,
	}
}
