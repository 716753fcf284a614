package ws

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/protocol"
	"github.com/beaumontjonathan/words/internal/worker/repositories/accounts"
	"github.com/beaumontjonathan/words/internal/worker/session"
	"github.com/beaumontjonathan/words/internal/worker/words"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu      sync.Mutex
	adds    []protocol.AddWordRelay
	removes []protocol.RemoveWordRelay
}

func (p *fakePublisher) PublishAdd(rel protocol.AddWordRelay) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.adds = append(p.adds, rel)
}

func (p *fakePublisher) PublishRemove(rel protocol.RemoveWordRelay) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removes = append(p.removes, rel)
}

func (p *fakePublisher) addCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.adds)
}

func newTestServer(t *testing.T) (*httptest.Server, *fakePublisher) {
	t.Helper()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	pub := &fakePublisher{}
	svc := words.NewService(accounts.NewMemoryRepository(), session.NewRegistry(), pub, logger)
	s := NewServer("", svc, logger)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleConnection(r.Context(), w, r)
	}))
	t.Cleanup(ts.Close)
	return ts, pub
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, action string, payload any) {
	t.Helper()
	env, err := protocol.NewEnvelope(action, payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(env))
}

func recv(t *testing.T, conn *websocket.Conn) protocol.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env protocol.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func loginAs(t *testing.T, conn *websocket.Conn, username, password string) {
	t.Helper()
	send(t, conn, protocol.ActionLogin, protocol.LoginRequest{Username: username, Password: password})
	env := recv(t, conn)
	require.Equal(t, protocol.ActionLogin, env.Action)
	var res protocol.LoginResponse
	require.NoError(t, env.Decode(&res))
	require.True(t, res.Success)
}

func TestServer_CreateAccountLoginAddWord(t *testing.T) {
	ts, pub := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, protocol.ActionCreateAccount, protocol.CreateAccountRequest{Username: "alice", Password: "pass1"})
	env := recv(t, conn)
	require.Equal(t, protocol.ActionCreateAccount, env.Action)
	var cres protocol.CreateAccountResponse
	require.NoError(t, env.Decode(&cres))
	assert.True(t, cres.Success)

	loginAs(t, conn, "alice", "pass1")

	send(t, conn, protocol.ActionAddWord, protocol.AddWordRequest{Word: "hello"})
	env = recv(t, conn)
	require.Equal(t, protocol.ActionAddWord, env.Action)
	var ares protocol.AddWordResponse
	require.NoError(t, env.Decode(&ares))
	assert.True(t, ares.Success)
	assert.Equal(t, "hello", ares.Word)

	send(t, conn, protocol.ActionGetWords, nil)
	env = recv(t, conn)
	require.Equal(t, protocol.ActionGetWords, env.Action)
	var gres protocol.GetWordsResponse
	require.NoError(t, env.Decode(&gres))
	require.Len(t, gres.Words, 1)
	assert.Equal(t, "hello", gres.Words[0].Word)

	assert.Equal(t, 1, pub.addCount())
}

func TestServer_ResponsesPreserveRequestOrder(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, protocol.ActionCreateAccount, protocol.CreateAccountRequest{Username: "bob", Password: "pass1"})
	recv(t, conn)
	loginAs(t, conn, "bob", "pass1")

	for _, w := range []string{"one", "two", "three"} {
		send(t, conn, protocol.ActionAddWord, protocol.AddWordRequest{Word: w})
	}
	for _, w := range []string{"one", "two", "three"} {
		env := recv(t, conn)
		require.Equal(t, protocol.ActionAddWord, env.Action)
		var res protocol.AddWordResponse
		require.NoError(t, env.Decode(&res))
		assert.Equal(t, w, res.Word)
	}
}

func TestServer_AddWordFansOutToSecondSession(t *testing.T) {
	ts, _ := newTestServer(t)

	c1 := dial(t, ts)
	send(t, c1, protocol.ActionCreateAccount, protocol.CreateAccountRequest{Username: "carol", Password: "pass1"})
	recv(t, c1)
	loginAs(t, c1, "carol", "pass1")

	c2 := dial(t, ts)
	loginAs(t, c2, "carol", "pass1")

	send(t, c1, protocol.ActionAddWord, protocol.AddWordRequest{Word: "shared"})

	// The originating session gets the direct response.
	env := recv(t, c1)
	require.Equal(t, protocol.ActionAddWord, env.Action)

	// The other session gets the same update pushed without asking.
	env = recv(t, c2)
	require.Equal(t, protocol.ActionAddWord, env.Action)
	var res protocol.AddWordResponse
	require.NoError(t, env.Decode(&res))
	assert.True(t, res.Success)
	assert.Equal(t, "shared", res.Word)
}

func TestServer_MalformedFrameKeepsSessionAlive(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	send(t, conn, protocol.ActionCreateAccount, protocol.CreateAccountRequest{Username: "dave", Password: "pass1"})
	env := recv(t, conn)
	require.Equal(t, protocol.ActionCreateAccount, env.Action)
}

func TestServer_UnknownActionIsDropped(t *testing.T) {
	ts, _ := newTestServer(t)
	conn := dial(t, ts)

	send(t, conn, "bogus", nil)

	send(t, conn, protocol.ActionGetWords, nil)
	env := recv(t, conn)
	require.Equal(t, protocol.ActionGetWords, env.Action)
	var res protocol.GetWordsResponse
	require.NoError(t, env.Decode(&res))
	assert.False(t, res.Success)
	assert.False(t, res.IsLoggedIn)
}

func TestServer_DisconnectLogsSessionOut(t *testing.T) {
	ts, _ := newTestServer(t)

	c1 := dial(t, ts)
	send(t, c1, protocol.ActionCreateAccount, protocol.CreateAccountRequest{Username: "erin", Password: "pass1"})
	recv(t, c1)
	loginAs(t, c1, "erin", "pass1")

	c2 := dial(t, ts)
	loginAs(t, c2, "erin", "pass1")

	c1.Close()

	// Give the server a moment to tear the first session down, then make
	// sure updates still reach the surviving one.
	time.Sleep(100 * time.Millisecond)

	send(t, c2, protocol.ActionAddWord, protocol.AddWordRequest{Word: "alone"})
	env := recv(t, c2)
	require.Equal(t, protocol.ActionAddWord, env.Action)
	var res protocol.AddWordResponse
	require.NoError(t, env.Decode(&res))
	assert.True(t, res.Success)
}
