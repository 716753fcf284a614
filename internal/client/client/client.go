// Package client implements the WebSocket client for the words API. It
// matches responses to requests by action name and surfaces server-pushed
// updates (word changes made by the user's other sessions) via a callback.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/beaumontjonathan/words/internal/common"
	"github.com/beaumontjonathan/words/internal/protocol"
	"github.com/gorilla/websocket"
)

// ErrTimeout is returned when the server does not answer a request within
// the configured response timeout.
var ErrTimeout = errors.New("timed out waiting for server response")

// Client is a connection to one worker. Responses carry the same action
// name as their request and arrive in request order, so each request
// registers a waiter in a per-action FIFO queue; frames with no waiter are
// pushes from the user's other sessions.
type Client struct {
	url     string
	timeout time.Duration
	onPush  func(protocol.Envelope)

	writeMu sync.Mutex
	conn    *websocket.Conn

	mu      sync.Mutex
	waiters map[string][]chan protocol.Envelope

	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(serverAddr string, timeout time.Duration) *Client {
	return &Client{
		url:     "ws://" + serverAddr + "/",
		timeout: timeout,
		waiters: make(map[string][]chan protocol.Envelope),
		done:    make(chan struct{}),
	}
}

// OnPush registers the callback invoked for server frames that answer no
// pending request. Must be called before Connect.
func (c *Client) OnPush(fn func(protocol.Envelope)) {
	c.onPush = fn
}

// Connect dials the worker and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	c.conn = conn
	go c.readLoop()
	return nil
}

func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Done is closed when the connection is lost or Close is called.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) readLoop() {
	defer c.closeOnce.Do(func() { close(c.done) })

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}

		c.mu.Lock()
		if q := c.waiters[env.Action]; len(q) > 0 {
			ch := q[0]
			c.waiters[env.Action] = q[1:]
			c.mu.Unlock()
			ch <- env
			continue
		}
		c.mu.Unlock()

		if c.onPush != nil {
			c.onPush(env)
		}
	}
}

func (c *Client) addWaiter(action string) chan protocol.Envelope {
	ch := make(chan protocol.Envelope, 1)
	c.mu.Lock()
	c.waiters[action] = append(c.waiters[action], ch)
	c.mu.Unlock()
	return ch
}

func (c *Client) removeWaiter(action string, ch chan protocol.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.waiters[action]
	for i := range q {
		if q[i] == ch {
			c.waiters[action] = append(q[:i:i], q[i+1:]...)
			return
		}
	}
}

func (c *Client) call(ctx context.Context, action string, req, res any) error {
	if c.conn == nil {
		return common.ErrorNotConnected
	}

	env, err := protocol.NewEnvelope(action, req)
	if err != nil {
		return err
	}

	ch := c.addWaiter(action)

	c.writeMu.Lock()
	err = c.conn.WriteJSON(env)
	c.writeMu.Unlock()
	if err != nil {
		c.removeWaiter(action, ch)
		return err
	}

	select {
	case reply := <-ch:
		return reply.Decode(res)
	case <-time.After(c.timeout):
		c.removeWaiter(action, ch)
		return ErrTimeout
	case <-ctx.Done():
		c.removeWaiter(action, ch)
		return ctx.Err()
	case <-c.done:
		c.removeWaiter(action, ch)
		return common.ErrorNotConnected
	}
}

func (c *Client) Login(ctx context.Context, username, password string) (protocol.LoginResponse, error) {
	var res protocol.LoginResponse
	err := c.call(ctx, protocol.ActionLogin, protocol.LoginRequest{Username: username, Password: password}, &res)
	return res, err
}

func (c *Client) Logout(ctx context.Context) (protocol.LogoutResponse, error) {
	var res protocol.LogoutResponse
	err := c.call(ctx, protocol.ActionLogout, nil, &res)
	return res, err
}

func (c *Client) CreateAccount(ctx context.Context, username, password string) (protocol.CreateAccountResponse, error) {
	var res protocol.CreateAccountResponse
	err := c.call(ctx, protocol.ActionCreateAccount, protocol.CreateAccountRequest{Username: username, Password: password}, &res)
	return res, err
}

func (c *Client) AddWord(ctx context.Context, word string) (protocol.AddWordResponse, error) {
	var res protocol.AddWordResponse
	err := c.call(ctx, protocol.ActionAddWord, protocol.AddWordRequest{Word: word}, &res)
	return res, err
}

func (c *Client) AddWords(ctx context.Context, words []string) (protocol.AddWordsResponse, error) {
	var res protocol.AddWordsResponse
	err := c.call(ctx, protocol.ActionAddWords, protocol.AddWordsRequest{Words: words}, &res)
	return res, err
}

func (c *Client) RemoveWord(ctx context.Context, word string) (protocol.RemoveWordResponse, error) {
	var res protocol.RemoveWordResponse
	err := c.call(ctx, protocol.ActionRemoveWord, protocol.RemoveWordRequest{Word: word}, &res)
	return res, err
}

func (c *Client) GetWords(ctx context.Context) (protocol.GetWordsResponse, error) {
	var res protocol.GetWordsResponse
	err := c.call(ctx, protocol.ActionGetWords, nil, &res)
	return res, err
}
