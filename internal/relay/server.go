package relay

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// Server accepts websocket connections on /join and bridges them into a Hub.
type Server struct {
	addr   string
	hub    *Hub
	logger *zap.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu       sync.Mutex
	listener net.Listener
	running  bool
}

// NewServer creates a relay server bound to addr.
//
// Precondition: hub and logger must be non-nil.
func NewServer(addr string, hub *Hub, logger *zap.Logger) *Server {
	return &Server{
		addr:   addr,
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The relay trusts its callers; clients authenticate by
			// room name only.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ListenAndServe starts the HTTP listener and blocks until Stop is called.
//
// Precondition: The server must not already be running.
// Postcondition: The listener is closed when this method returns.
func (s *Server) ListenAndServe() error {
	start := time.Now()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/join", s.handleJoin)

	s.mu.Lock()
	s.listener = listener
	s.httpSrv = &http.Server{Handler: mux}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("relay listening",
		zap.String("addr", listener.Addr().String()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serving relay: %w", err)
	}
	return nil
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	clientID := r.URL.Query().Get("client")
	if room == "" || clientID == "" {
		http.Error(w, "room and client query parameters are required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	client, err := s.hub.Join(room, clientID)
	if err != nil {
		s.logger.Warn("join rejected",
			zap.String("room", room),
			zap.String("client", clientID),
			zap.Error(err),
		)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeTimeout))
		conn.Close()
		return
	}

	go s.writeLoop(conn, client)
	s.readLoop(conn, client)
}

// readLoop pulls frames from the socket into the hub until the connection
// drops, then removes the client from its room.
func (s *Server) readLoop(conn *websocket.Conn, client *Client) {
	defer func() {
		s.hub.Leave(client)
		conn.Close()
	}()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("client read ended",
					zap.String("room", client.Room),
					zap.String("client", client.ID),
					zap.Error(err),
				)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		s.hub.Broadcast(client, data)
	}
}

// writeLoop drains the client's outbound queue onto the socket. Exits when
// the hub closes the queue or a write fails.
func (s *Server) writeLoop(conn *websocket.Conn, client *Client) {
	for data := range client.Outbound() {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Debug("client write ended",
				zap.String("room", client.Room),
				zap.String("client", client.ID),
				zap.Error(err),
			)
			return
		}
	}
}

// Stop gracefully stops the server, closing the listener and all
// connections.
//
// Postcondition: ListenAndServe has returned or will return promptly.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false

	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(ctx)
	}

	s.logger.Info("relay stopped")
}

// Addr returns the actual listening address, or empty string if not yet listening.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
