// Package debug serves a live JSON stream of companion state over a
// websocket, for watching behavior without an engine frontend attached.
package debug

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// Snapshot is one broadcast frame of observable state.
type Snapshot struct {
	Tick      uint64     `json:"tick"`
	State     string     `json:"state"`
	Suspended bool       `json:"suspended"`
	Agent     [3]float64 `json:"agent"`
	Player    [3]float64 `json:"player"`
	PlayerOK  bool       `json:"playerOk"`
	Ball      [3]float64 `json:"ball"`
	BallLive  bool       `json:"ballLive"`
	Held      bool       `json:"held"`
}

// Server accepts websocket subscribers on /ws and fans snapshots out to
// them. Slow or dead subscribers are dropped, never waited on.
type Server struct {
	log *zap.Logger
	srv *http.Server

	mu   sync.Mutex
	subs map[*websocket.Conn]struct{}
}

func NewServer(addr string, log *zap.Logger) *Server {
	s := &Server{
		log:  log,
		subs: make(map[*websocket.Conn]struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start begins listening in the background.
func (s *Server) Start() {
	go func() {
		s.log.Info("debug stream listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Warn("debug stream stopped", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) {
	s.mu.Lock()
	for conn := range s.subs {
		conn.Close()
	}
	s.subs = make(map[*websocket.Conn]struct{})
	s.mu.Unlock()
	_ = s.srv.Shutdown(ctx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	s.mu.Lock()
	s.subs[conn] = struct{}{}
	n := len(s.subs)
	s.mu.Unlock()
	s.log.Info("debug subscriber connected", zap.Int("subscribers", n))

	// Drain (and ignore) client messages so pings and closes are handled.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends a snapshot to every subscriber.
func (s *Server) Broadcast(snap Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.subs))
	for conn := range s.subs {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(conn)
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	if _, ok := s.subs[conn]; ok {
		delete(s.subs, conn)
		conn.Close()
	}
	s.mu.Unlock()
}
