package grpcserver

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"moviehub/pkg/logging"
)

// LoggingInterceptor logs every unary call. NotFound is an expected
// outcome and stays at debug level.
func LoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	ev := logging.Info()
	switch code {
	case codes.OK:
	case codes.NotFound, codes.FailedPrecondition:
		ev = logging.Debug()
	case codes.InvalidArgument:
		ev = logging.Warn()
	default:
		ev = logging.Error().Err(err)
	}
	ev.Str("method", info.FullMethod).
		Str("code", code.String()).
		Dur("latency", time.Since(start)).
		Msg("grpc call")
	return resp, err
}
