// Package ws is the worker's client-facing transport: it upgrades inbound
// HTTP connections to WebSocket and runs one ClientSession per connection.
package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/worker/words"
	"github.com/gorilla/websocket"
)

type Server struct {
	address string
	svc     *words.Service
	logger  logging.Logger

	upgrader websocket.Upgrader
}

func NewServer(address string, svc *words.Service, logger logging.Logger) *Server {
	return &Server{
		address: address,
		svc:     svc,
		logger:  logger.With("module", "ws_server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients are mobile apps and CLI tools, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run serves client connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.handleConnection(ctx, w, r)
	})

	srv := &http.Server{Addr: s.address, Handler: mux}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping client server...")
		srv.Close()
	}()

	s.logger.Info(ctx, "Listening for clients", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(ctx, "upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sess := newClientSession(conn, s.svc, s.logger)
	s.logger.Info(ctx, "client connected", "conn", sess.ID(), "remote", r.RemoteAddr)

	go sess.writePump()
	sess.readPump(ctx)
}
