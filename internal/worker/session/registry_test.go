package session

import (
	"sync"
	"testing"

	"github.com/beaumontjonathan/words/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id   string
	mu   sync.Mutex
	sent []protocol.Envelope
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(env protocol.Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, env)
}

func TestRegistry_LoginLogout(t *testing.T) {
	r := NewRegistry()
	a := &fakeConn{id: "a"}

	assert.False(t, r.IsConnLoggedIn("a"))
	assert.False(t, r.IsUserLoggedIn("alice"))

	r.Login("alice", a)
	assert.True(t, r.IsConnLoggedIn("a"))
	assert.True(t, r.IsUserLoggedIn("alice"))

	username, ok := r.Username("a")
	require.True(t, ok)
	assert.Equal(t, "alice", username)

	assert.True(t, r.Logout("a"))
	assert.False(t, r.IsConnLoggedIn("a"))
	assert.False(t, r.IsUserLoggedIn("alice"))
	assert.False(t, r.Logout("a"), "second logout must report no session")
}

func TestRegistry_LogoutRemovesOnlyOneSession(t *testing.T) {
	r := NewRegistry()
	a := &fakeConn{id: "a"}
	b := &fakeConn{id: "b"}
	c := &fakeConn{id: "c"}

	r.Login("alice", a)
	r.Login("alice", b)
	r.Login("alice", c)

	require.True(t, r.Logout("b"))

	assert.True(t, r.IsConnLoggedIn("a"))
	assert.False(t, r.IsConnLoggedIn("b"))
	assert.True(t, r.IsConnLoggedIn("c"), "sessions registered after the logged-out one must survive")

	var ids []string
	r.ForEachConn("alice", func(conn Conn) { ids = append(ids, conn.ID()) })
	assert.Equal(t, []string{"a", "c"}, ids, "registration order must be preserved")
}

func TestRegistry_ForEachConnSnapshotTolerantOfLogout(t *testing.T) {
	r := NewRegistry()
	a := &fakeConn{id: "a"}
	b := &fakeConn{id: "b"}
	r.Login("alice", a)
	r.Login("alice", b)

	var visited []string
	r.ForEachConn("alice", func(conn Conn) {
		visited = append(visited, conn.ID())
		// Removing during iteration must not corrupt it.
		r.Logout(conn.ID())
	})

	assert.Equal(t, []string{"a", "b"}, visited)
	assert.False(t, r.IsUserLoggedIn("alice"))
}

func TestRegistry_MultiUser(t *testing.T) {
	r := NewRegistry()
	a := &fakeConn{id: "a"}
	b := &fakeConn{id: "b"}
	r.Login("alice", a)
	r.Login("bob", b)

	var ids []string
	r.ForEachConn("alice", func(conn Conn) { ids = append(ids, conn.ID()) })
	assert.Equal(t, []string{"a"}, ids)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c := &fakeConn{id: string(rune('a' + n%26))}
			r.Login("alice", c)
			r.ForEachConn("alice", func(Conn) {})
			r.Logout(c.ID())
		}(i)
	}
	wg.Wait()
}
