package session

import (
	"net"
	"sync"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"moviehub/internal/metrics"
)

// Hub tracks open sessions so they can be counted and closed on shutdown.
type Hub struct {
	mu        sync.Mutex
	clients   map[net.Conn]struct{}
	wsClients map[*websocket.Conn]struct{}

	frameRate  rate.Limit
	frameBurst int
}

type Stats struct {
	TCPClients int `json:"tcp_clients"`
	WSClients  int `json:"ws_clients"`
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[net.Conn]struct{}),
		wsClients: make(map[*websocket.Conn]struct{}),
	}
}

// LimitFrames caps every session at perSecond request frames with the
// given burst. Zero perSecond lifts the cap.
func (h *Hub) LimitFrames(perSecond float64, burst int) {
	if burst < 1 {
		burst = 1
	}
	h.mu.Lock()
	h.frameRate = rate.Limit(perSecond)
	h.frameBurst = burst
	h.mu.Unlock()
}

// limiter returns a fresh per-session limiter, nil when uncapped.
func (h *Hub) limiter() *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frameRate <= 0 {
		return nil
	}
	return rate.NewLimiter(h.frameRate, h.frameBurst)
}

func (h *Hub) Add(conn net.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	metrics.TrackSession("tcp", true)
}

func (h *Hub) Remove(conn net.Conn) {
	h.mu.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
	if ok {
		metrics.TrackSession("tcp", false)
	}
}

func (h *Hub) AddWS(ws *websocket.Conn) {
	h.mu.Lock()
	h.wsClients[ws] = struct{}{}
	h.mu.Unlock()
	metrics.TrackSession("websocket", true)
}

func (h *Hub) RemoveWS(ws *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.wsClients[ws]
	delete(h.wsClients, ws)
	h.mu.Unlock()
	_ = ws.Close()
	if ok {
		metrics.TrackSession("websocket", false)
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		TCPClients: len(h.clients),
		WSClients:  len(h.wsClients),
	}
}

// CloseAll drops every session. Their read loops then return and call
// Remove/RemoveWS.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.Close()
	}
	for ws := range h.wsClients {
		_ = ws.Close()
	}
}
