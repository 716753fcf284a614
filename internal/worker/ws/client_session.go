package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/protocol"
	"github.com/beaumontjonathan/words/internal/worker/words"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// ClientSession adapts one WebSocket connection to the words service: the
// read pump decodes request envelopes and dispatches them sequentially, so
// responses on a connection preserve request order; the write pump owns all
// writes to the socket.
type ClientSession struct {
	id     string
	ws     *websocket.Conn
	svc    *words.Service
	logger logging.Logger

	send      chan protocol.Envelope
	done      chan struct{}
	closeOnce sync.Once
}

func newClientSession(ws *websocket.Conn, svc *words.Service, logger logging.Logger) *ClientSession {
	id := uuid.NewString()
	return &ClientSession{
		id:     id,
		ws:     ws,
		svc:    svc,
		logger: logger.With("module", "client_session", "conn", id),
		send:   make(chan protocol.Envelope, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *ClientSession) ID() string { return c.id }

// Send enqueues an envelope for delivery. It never blocks: a full queue
// means the peer is not keeping up, and the frame is dropped the same way
// a frame to a dead connection would be.
func (c *ClientSession) Send(env protocol.Envelope) {
	select {
	case <-c.done:
	case c.send <- env:
	default:
		c.logger.Warn(context.Background(), "send queue full, dropping frame", "action", env.Action)
	}
}

func (c *ClientSession) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *ClientSession) readPump(ctx context.Context) {
	defer func() {
		c.svc.Disconnect(ctx, c)
		c.close()
		c.ws.Close()
		c.logger.Info(ctx, "client disconnected")
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn(ctx, "read error", "error", err)
			}
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			// Malformed frame: drop it, keep the session.
			c.logger.Warn(ctx, "malformed frame", "error", err)
			continue
		}

		c.dispatch(ctx, env)
	}
}

func (c *ClientSession) dispatch(ctx context.Context, env protocol.Envelope) {
	switch env.Action {

	case protocol.ActionLogin:
		var req protocol.LoginRequest
		if err := env.Decode(&req); err != nil {
			c.logger.Warn(ctx, "bad request payload", "action", env.Action, "error", err)
			return
		}
		c.respond(ctx, protocol.ActionLogin, c.svc.Login(ctx, c, req))

	case protocol.ActionLogout:
		c.respond(ctx, protocol.ActionLogout, c.svc.Logout(ctx, c))

	case protocol.ActionCreateAccount:
		var req protocol.CreateAccountRequest
		if err := env.Decode(&req); err != nil {
			c.logger.Warn(ctx, "bad request payload", "action", env.Action, "error", err)
			return
		}
		c.respond(ctx, protocol.ActionCreateAccount, c.svc.CreateAccount(ctx, req))

	case protocol.ActionAddWord:
		var req protocol.AddWordRequest
		if err := env.Decode(&req); err != nil {
			c.logger.Warn(ctx, "bad request payload", "action", env.Action, "error", err)
			return
		}
		c.respond(ctx, protocol.ActionAddWord, c.svc.AddWord(ctx, c, req))

	case protocol.ActionAddWords:
		var req protocol.AddWordsRequest
		if err := env.Decode(&req); err != nil {
			c.logger.Warn(ctx, "bad request payload", "action", env.Action, "error", err)
			return
		}
		c.respond(ctx, protocol.ActionAddWords, c.svc.AddWords(ctx, c, req))

	case protocol.ActionRemoveWord:
		var req protocol.RemoveWordRequest
		if err := env.Decode(&req); err != nil {
			c.logger.Warn(ctx, "bad request payload", "action", env.Action, "error", err)
			return
		}
		c.respond(ctx, protocol.ActionRemoveWord, c.svc.RemoveWord(ctx, c, req))

	case protocol.ActionGetWords:
		c.respond(ctx, protocol.ActionGetWords, c.svc.GetWords(ctx, c))

	default:
		c.logger.Warn(ctx, "unknown action", "action", env.Action)
	}
}

func (c *ClientSession) respond(ctx context.Context, action string, payload any) {
	env, err := protocol.NewEnvelope(action, payload)
	if err != nil {
		c.logger.Error(ctx, "response encode error", "action", action, "error", err)
		return
	}
	c.Send(env)
}

func (c *ClientSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case env := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(env); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
