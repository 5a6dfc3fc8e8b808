package supervisor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"

	"moviehub/internal/session"
)

// HTTPServer is the part of *http.Server a service needs.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPService adapts a blocking ListenAndServe to suture's Serve.
type HTTPService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
}

func NewHTTPService(server HTTPServer, shutdownTimeout time.Duration) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

func (h *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPService) String() string { return "http-server" }

// SessionService runs the TCP session listener. On stop it also drops
// every open session, websocket ones included, since http.Server.Shutdown
// does not track hijacked connections.
type SessionService struct {
	server *session.Server
	hub    *session.Hub
}

func NewSessionService(server *session.Server, hub *session.Hub) *SessionService {
	return &SessionService{server: server, hub: hub}
}

func (s *SessionService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("tcp sessions: %w", err)
		}
		return nil
	case <-ctx.Done():
		_ = s.server.Close()
		<-errCh
		s.hub.CloseAll()
		return ctx.Err()
	}
}

func (s *SessionService) String() string { return "tcp-sessions" }

// GRPCService serves a gRPC server on addr until stopped, then drains it
// with GracefulStop.
type GRPCService struct {
	server *grpc.Server
	addr   string
}

func NewGRPCService(server *grpc.Server, addr string) *GRPCService {
	return &GRPCService{server: server, addr: addr}
}

func (g *GRPCService) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.addr)
	if err != nil {
		return fmt.Errorf("grpc listen %s: %w", g.addr, err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- g.server.Serve(ln) }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	case <-ctx.Done():
		g.server.GracefulStop()
		<-errCh
		return ctx.Err()
	}
}

func (g *GRPCService) String() string { return "grpc-server" }
