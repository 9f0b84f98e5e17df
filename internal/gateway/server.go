package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server exposes the session gateway over a WebSocket endpoint
type Server struct {
	table       map[string]HandlerFunc
	logger      *zap.Logger
	listenAddr  string
	wsPath      string
	callTimeout time.Duration
	httpServer  *http.Server
	upgrader    websocket.Upgrader
}

// NewServer creates a new gateway server
func NewServer(
	handlers *Handlers,
	logger *zap.Logger,
	listenAddr string,
	wsPath string,
	callTimeout time.Duration,
) *Server {
	return &Server{
		table:       handlers.Table(),
		logger:      logger,
		listenAddr:  listenAddr,
		wsPath:      wsPath,
		callTimeout: callTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The browser client connects cross-origin during development
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Start starts the gateway server
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc(s.wsPath, s.handleWS)

	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Gateway starting",
		zap.String("address", s.listenAddr),
		zap.String("path", s.wsPath))

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				s.logger.Error("Gateway server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the gateway server
func (s *Server) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Handler returns the WebSocket endpoint handler, for mounting on an
// external mux (used by tests).
func (s *Server) Handler() http.HandlerFunc {
	return s.handleWS
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := newSession(conn, cancel, s.logger)
	go sess.writePump()

	s.logger.Info("Session connected", zap.String("remote", conn.RemoteAddr().String()))
	sess.Emit(EventConnected, connectedPayload{Data: "Connected to grammar service"})

	s.readLoop(ctx, sess)

	sess.close()
	s.logger.Info("Session disconnected", zap.String("remote", conn.RemoteAddr().String()))
}

// readLoop dispatches inbound events until the transport closes. Each event
// is handled in its own goroutine so one slow model call never stalls the
// session; sessions are stateless across events and no ordering is
// guaranteed between them.
func (s *Server) readLoop(ctx context.Context, sess *Session) {
	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			sess.Emit(EventError, errorPayload{Message: "malformed event"})
			continue
		}

		handler, ok := s.table[env.Event]
		if !ok {
			sess.Emit(EventError, errorPayload{Message: "unknown event: " + env.Event})
			continue
		}

		go func(env Envelope) {
			callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
			defer cancel()
			handler(callCtx, sess, env.Payload)
		}(env)
	}
}
