package hub

import (
	"context"
	"encoding/json"
	"time"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/protocol"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 65536
	sendBuffer     = 64
)

// Worker is one connected worker process as seen by the hub.
type Worker struct {
	id     string
	hub    *Hub
	ws     *websocket.Conn
	logger logging.Logger

	send chan protocol.Envelope
}

// Register wires a freshly upgraded connection into the hub and starts its
// pumps. It returns once the worker disconnects.
func (h *Hub) Register(ctx context.Context, ws *websocket.Conn) {
	id := uuid.NewString()
	w := &Worker{
		id:     id,
		hub:    h,
		ws:     ws,
		logger: h.logger.With("worker", id),
		send:   make(chan protocol.Envelope, sendBuffer),
	}

	select {
	case h.register <- w:
	case <-ctx.Done():
		ws.Close()
		return
	}

	go w.writePump()
	w.readPump(ctx)
}

func (w *Worker) readPump(ctx context.Context) {
	defer func() {
		select {
		case w.hub.unregister <- w:
		case <-ctx.Done():
		}
		w.ws.Close()
	}()

	w.ws.SetReadLimit(maxMessageSize)
	w.ws.SetReadDeadline(time.Now().Add(pongWait))
	w.ws.SetPongHandler(func(string) error {
		w.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := w.ws.ReadMessage()
		if err != nil {
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			w.logger.Warn(ctx, "malformed frame", "error", err)
			continue
		}

		select {
		case w.hub.relay <- inbound{from: w, env: env}:
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		w.ws.Close()
	}()

	for {
		select {
		case env, ok := <-w.send:
			if !ok {
				w.ws.SetWriteDeadline(time.Now().Add(writeWait))
				w.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			w.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.ws.WriteJSON(env); err != nil {
				return
			}

		case <-ticker.C:
			w.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
