package grpcserver

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"moviehub/internal/movies"
	"moviehub/pkg/models"
)

// Server maps catalog outcomes onto gRPC status codes: a lookup miss is
// NotFound carrying the same message the HTTP API returns, and a movie
// without features is FailedPrecondition.
type Server struct {
	Service *movies.Service
}

func NewServer(svc *movies.Service) *Server {
	return &Server{Service: svc}
}

func argument(req *Request) (string, error) {
	if req == nil || strings.TrimSpace(req.Arg) == "" {
		return "", status.Error(codes.InvalidArgument, "arg required")
	}
	return req.Arg, nil
}

func (s *Server) FilmsPerMonth(ctx context.Context, req *Request) (*models.MonthCount, error) {
	arg, err := argument(req)
	if err != nil {
		return nil, err
	}
	r := s.Service.FilmsPerMonth(arg)
	if !r.Found {
		return nil, status.Error(codes.NotFound, r.Month)
	}
	return &r, nil
}

func (s *Server) FilmsPerDay(ctx context.Context, req *Request) (*models.DayCount, error) {
	arg, err := argument(req)
	if err != nil {
		return nil, err
	}
	r := s.Service.FilmsPerDay(arg)
	if !r.Found {
		return nil, status.Error(codes.NotFound, r.Day)
	}
	return &r, nil
}

func (s *Server) TitleScore(ctx context.Context, req *Request) (*models.TitleScore, error) {
	arg, err := argument(req)
	if err != nil {
		return nil, err
	}
	r := s.Service.TitleScore(arg)
	if !r.Found {
		return nil, status.Error(codes.NotFound, r.Title)
	}
	return &r, nil
}

func (s *Server) TitleVotes(ctx context.Context, req *Request) (*models.TitleVotes, error) {
	arg, err := argument(req)
	if err != nil {
		return nil, err
	}
	r := s.Service.TitleVotes(arg)
	if !r.Found {
		return nil, status.Error(codes.NotFound, r.Title)
	}
	return &r, nil
}

func (s *Server) ActorStats(ctx context.Context, req *Request) (*models.ActorStats, error) {
	arg, err := argument(req)
	if err != nil {
		return nil, err
	}
	r := s.Service.ActorStats(arg)
	if !r.Found {
		return nil, status.Error(codes.NotFound, r.Actor)
	}
	return &r, nil
}

func (s *Server) DirectorStats(ctx context.Context, req *Request) (*models.DirectorStats, error) {
	arg, err := argument(req)
	if err != nil {
		return nil, err
	}
	r := s.Service.DirectorStats(arg)
	if !r.Found {
		return nil, status.Error(codes.NotFound, r.Director)
	}
	return &r, nil
}

func (s *Server) Recommend(ctx context.Context, req *Request) (*RecommendResponse, error) {
	arg, err := argument(req)
	if err != nil {
		return nil, err
	}
	r := s.Service.Recommendation(arg)
	switch r.Status {
	case models.MovieNotFound:
		return nil, status.Error(codes.NotFound, models.MovieNotFoundMessage)
	case models.InsufficientData:
		return nil, status.Error(codes.FailedPrecondition, models.InsufficientDataMessage)
	}
	titles := r.Titles
	if titles == nil {
		titles = []string{}
	}
	return &RecommendResponse{Titles: titles}, nil
}
