package supervisor

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"

	"moviehub/internal/session"
)

type fakeHTTPServer struct {
	stop      chan struct{}
	listenErr error
	shutdown  atomic.Bool
}

func newFakeHTTPServer() *fakeHTTPServer {
	return &fakeHTTPServer{stop: make(chan struct{})}
}

func (f *fakeHTTPServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.stop
	return http.ErrServerClosed
}

func (f *fakeHTTPServer) Shutdown(context.Context) error {
	f.shutdown.Store(true)
	close(f.stop)
	return nil
}

func serveAndCancel(t *testing.T, serve func(context.Context) error) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop")
		return nil
	}
}

func TestHTTPService_ShutsDownOnCancel(t *testing.T) {
	fake := newFakeHTTPServer()
	svc := NewHTTPService(fake, time.Second)

	err := serveAndCancel(t, svc.Serve)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if !fake.shutdown.Load() {
		t.Error("Shutdown was not called")
	}
}

func TestHTTPService_ListenError(t *testing.T) {
	fake := newFakeHTTPServer()
	fake.listenErr = errors.New("address in use")
	svc := NewHTTPService(fake, 0)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, fake.listenErr) {
		t.Errorf("Serve() = %v, want wrapped listen error", err)
	}
}

func TestSessionService_StopsListener(t *testing.T) {
	hub := session.NewHub()
	svc := NewSessionService(session.NewServer("127.0.0.1:0", hub, nil), hub)

	if err := serveAndCancel(t, svc.Serve); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestGRPCService_StopsGracefully(t *testing.T) {
	svc := NewGRPCService(grpc.NewServer(), "127.0.0.1:0")

	if err := serveAndCancel(t, svc.Serve); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestTree_ServeBackground(t *testing.T) {
	tree := New("test", TreeConfig{FailureBackoff: 100 * time.Millisecond, ShutdownTimeout: time.Second})
	fake := newFakeHTTPServer()
	tree.Add(NewHTTPService(fake, time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	select {
	case err := <-tree.ServeBackground(ctx):
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("tree error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}
	if !fake.shutdown.Load() {
		t.Error("supervised service was not shut down")
	}
}
