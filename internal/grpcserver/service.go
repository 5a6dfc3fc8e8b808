package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"moviehub/pkg/models"
)

const ServiceName = "moviehub.MovieService"

// Request carries the single lookup key of every MovieService method:
// a month, day, title, actor or director name.
type Request struct {
	Arg string `json:"arg"`
}

type RecommendResponse struct {
	Titles []string `json:"titles"`
}

type MovieServiceServer interface {
	FilmsPerMonth(context.Context, *Request) (*models.MonthCount, error)
	FilmsPerDay(context.Context, *Request) (*models.DayCount, error)
	TitleScore(context.Context, *Request) (*models.TitleScore, error)
	TitleVotes(context.Context, *Request) (*models.TitleVotes, error)
	ActorStats(context.Context, *Request) (*models.ActorStats, error)
	DirectorStats(context.Context, *Request) (*models.DirectorStats, error)
	Recommend(context.Context, *Request) (*RecommendResponse, error)
}

func RegisterMovieServiceServer(s grpc.ServiceRegistrar, srv MovieServiceServer) {
	s.RegisterService(&MovieServiceDesc, srv)
}

var MovieServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MovieServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FilmsPerMonth", Handler: unary("FilmsPerMonth", MovieServiceServer.FilmsPerMonth)},
		{MethodName: "FilmsPerDay", Handler: unary("FilmsPerDay", MovieServiceServer.FilmsPerDay)},
		{MethodName: "TitleScore", Handler: unary("TitleScore", MovieServiceServer.TitleScore)},
		{MethodName: "TitleVotes", Handler: unary("TitleVotes", MovieServiceServer.TitleVotes)},
		{MethodName: "ActorStats", Handler: unary("ActorStats", MovieServiceServer.ActorStats)},
		{MethodName: "DirectorStats", Handler: unary("DirectorStats", MovieServiceServer.DirectorStats)},
		{MethodName: "Recommend", Handler: unary("Recommend", MovieServiceServer.Recommend)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "moviehub/movie_service",
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary adapts a typed method into a grpc.MethodHandler, running the
// server's interceptor chain the way generated code does.
func unary[Resp any](method string, call func(MovieServiceServer, context.Context, *Request) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Request)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MovieServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MovieServiceServer), ctx, req.(*Request))
		}
		return interceptor(ctx, in, info, handler)
	}
}
