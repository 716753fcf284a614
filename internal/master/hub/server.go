package hub

import (
	"context"
	"errors"
	"net/http"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/gorilla/websocket"
)

// Server accepts inbound worker connections and hands them to the hub.
type Server struct {
	address string
	hub     *Hub
	logger  logging.Logger

	upgrader websocket.Upgrader
}

func NewServer(address string, h *Hub, logger logging.Logger) *Server {
	return &Server{
		address: address,
		hub:     h,
		logger:  logger.With("module", "hub_server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Workers dial directly, there is no browser origin to check.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run serves worker connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Warn(ctx, "upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		s.hub.Register(ctx, conn)
	})

	srv := &http.Server{Addr: s.address, Handler: mux}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping worker server...")
		srv.Close()
	}()

	s.logger.Info(ctx, "Listening for workers", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
