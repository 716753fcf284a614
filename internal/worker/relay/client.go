// Package relay maintains the worker's upstream connection to the master
// process. Successful word changes are published upward; echoes of changes
// made on other workers come back down and are applied to local sessions.
//
// The link is best effort. While the master is unreachable the client keeps
// redialling with backoff and publishes are dropped; workers stay available
// for their own clients either way.
package relay

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/protocol"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"
)

const (
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 15 * time.Second
	writeTimeout   = 10 * time.Second
)

// EchoApplier receives word changes relayed from other workers.
type EchoApplier interface {
	ApplyAddEcho(rel protocol.AddWordRelay)
	ApplyRemoveEcho(rel protocol.RemoveWordRelay)
}

// Client is the worker side of the master link. It implements
// words.Publisher.
type Client struct {
	url     string
	applier EchoApplier
	logger  logging.Logger

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewClient(masterAddress string, applier EchoApplier, logger logging.Logger) *Client {
	return &Client{
		url:     "ws://" + masterAddress + "/",
		applier: applier,
		logger:  logger.With("module", "relay_client"),
	}
}

// SetApplier wires the echo sink. The service and the relay client each
// depend on the other, so one of them has to be attached after
// construction. Must be called before Run.
func (c *Client) SetApplier(applier EchoApplier) {
	c.applier = applier
}

// Run dials the master and pumps echoes until ctx is cancelled. A dropped
// connection is redialled with fibonacci backoff; frames published or
// relayed while the link is down are lost, not replayed.
func (c *Client) Run(ctx context.Context) error {
	for {
		conn, err := c.dial(ctx)
		if err != nil {
			return nil
		}

		c.logger.Info(ctx, "Connected to master", "url", c.url)
		c.setConn(conn)
		c.readLoop(ctx, conn)
		c.setConn(nil)
		conn.Close()

		select {
		case <-ctx.Done():
			return nil
		default:
			c.logger.Warn(ctx, "Master link lost, redialling")
		}
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	backoff := retry.WithCappedDuration(maxBackoff, retry.NewFibonacci(initialBackoff))

	var conn *websocket.Conn
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		ws, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err != nil {
			return retry.RetryableError(err)
		}
		conn = ws
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (c *Client) setConn(conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn = conn
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Warn(ctx, "malformed frame from master", "error", err)
			continue
		}

		switch env.Action {
		case protocol.ActionAddWordRelayEcho:
			var rel protocol.AddWordRelay
			if err := env.Decode(&rel); err != nil {
				c.logger.Warn(ctx, "bad echo payload", "action", env.Action, "error", err)
				continue
			}
			c.applier.ApplyAddEcho(rel)

		case protocol.ActionRemoveWordRelayEcho:
			var rel protocol.RemoveWordRelay
			if err := env.Decode(&rel); err != nil {
				c.logger.Warn(ctx, "bad echo payload", "action", env.Action, "error", err)
				continue
			}
			c.applier.ApplyRemoveEcho(rel)

		default:
			c.logger.Warn(ctx, "unknown action from master", "action", env.Action)
		}
	}
}

// PublishAdd relays a successful add to the master. If the link is down the
// frame is dropped.
func (c *Client) PublishAdd(rel protocol.AddWordRelay) {
	c.publish(protocol.ActionAddWordRelay, rel)
}

// PublishRemove relays a successful removal to the master. If the link is
// down the frame is dropped.
func (c *Client) PublishRemove(rel protocol.RemoveWordRelay) {
	c.publish(protocol.ActionRemoveWordRelay, rel)
}

func (c *Client) publish(action string, payload any) {
	env, err := protocol.NewEnvelope(action, payload)
	if err != nil {
		c.logger.Error(context.Background(), "relay encode error", "action", action, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		c.logger.Warn(context.Background(), "master link down, dropping relay", "action", action)
		return
	}

	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.conn.WriteJSON(env); err != nil {
		c.logger.Warn(context.Background(), "relay write failed", "action", action, "error", err)
	}
}
