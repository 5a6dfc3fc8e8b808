package session

import (
	"bufio"
	"errors"
	"net"
	"sync"
	"time"

	"moviehub/internal/metrics"
	"moviehub/internal/movies"
	"moviehub/pkg/logging"
)

const tcpWriteTimeout = 5 * time.Second

// Server accepts line-delimited JSON query sessions over TCP.
type Server struct {
	Addr    string
	Hub     *Hub
	Service *movies.Service

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

func NewServer(addr string, hub *Hub, svc *movies.Service) *Server {
	return &Server{Addr: addr, Hub: hub, Service: svc}
}

// Run listens on Addr and serves until Close is called, then returns nil.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ln.Close()
	}
	s.ln = ln
	s.mu.Unlock()
	logging.Info().Str("addr", ln.Addr().String()).Msg("[tcp] query sessions listening")

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logging.Warn().Err(err).Msg("[tcp] accept failed")
			continue
		}

		s.Hub.Add(conn)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(c net.Conn) {
	defer s.Hub.Remove(c)
	logging.Debug().Str("remote", c.RemoteAddr().String()).Msg("[tcp] client connected")

	w := bufio.NewWriter(c)
	write := func(b []byte) error {
		_ = c.SetWriteDeadline(time.Now().Add(tcpWriteTimeout))
		if _, err := w.Write(append(b, '\n')); err != nil {
			return err
		}
		return w.Flush()
	}

	if err := write(welcome("tcp")); err != nil {
		return
	}

	lim := s.Hub.limiter()
	sc := bufio.NewScanner(c)
	sc.Buffer(make([]byte, 0, maxFrameBytes), maxFrameBytes)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		metrics.RecordSessionFrame("tcp", "in")
		if lim != nil && !lim.Allow() {
			if err := write(throttled(line)); err != nil {
				break
			}
			continue
		}
		if err := write(handleFrame(s.Service, line)); err != nil {
			break
		}
		metrics.RecordSessionFrame("tcp", "out")
	}
	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		if errors.Is(err, bufio.ErrTooLong) {
			_ = write(errorFrame("", errFrameTooLarge))
		}
		logging.Warn().Err(err).Str("remote", c.RemoteAddr().String()).Msg("[tcp] session read failed")
	}
	logging.Debug().Str("remote", c.RemoteAddr().String()).Msg("[tcp] client disconnected")
}

func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}
