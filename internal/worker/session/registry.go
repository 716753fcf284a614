// Package session tracks which live connections are authenticated and as
// whom. A connection maps to at most one username; a username may have any
// number of live connections, since the same account can be logged in from
// several devices at once.
package session

import (
	"sync"

	"github.com/beaumontjonathan/words/internal/protocol"
)

// Conn is the transport-facing handle the registry holds for a live client
// connection. Send must not block: implementations enqueue and drop when
// the peer cannot keep up or is gone.
type Conn interface {
	ID() string
	Send(env protocol.Envelope)
}

// Registry is an in-memory bidirectional map between connections and
// authenticated usernames. The two maps are kept in sync under one lock;
// per-username connection slices preserve registration order.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]string // conn ID -> username
	byUser map[string][]Conn // username -> conns, registration order
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]string),
		byUser: make(map[string][]Conn),
	}
}

// Login registers the connection as authenticated for username. Multiple
// simultaneous sessions per user are permitted; no uniqueness check here.
func (r *Registry) Login(username string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn[c.ID()] = username
	r.byUser[username] = append(r.byUser[username], c)
}

// Logout removes the connection's session if present and reports whether
// one existed.
func (r *Registry) Logout(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	username, ok := r.byConn[connID]
	if !ok {
		return false
	}
	delete(r.byConn, connID)

	conns := r.byUser[username]
	for i, c := range conns {
		if c.ID() == connID {
			r.byUser[username] = append(conns[:i:i], conns[i+1:]...)
			break
		}
	}
	if len(r.byUser[username]) == 0 {
		delete(r.byUser, username)
	}
	return true
}

// IsConnLoggedIn reports whether the connection has an authenticated session.
func (r *Registry) IsConnLoggedIn(connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byConn[connID]
	return ok
}

// IsUserLoggedIn reports whether the username has at least one live session.
func (r *Registry) IsUserLoggedIn(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[username]) > 0
}

// Username returns the username the connection is authenticated as.
func (r *Registry) Username(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	username, ok := r.byConn[connID]
	return username, ok
}

// ForEachConn invokes fn once per live connection of username, in
// registration order. Iteration runs over a snapshot, so fn may log out or
// close connections without corrupting it.
func (r *Registry) ForEachConn(username string, fn func(Conn)) {
	r.mu.RLock()
	conns := make([]Conn, len(r.byUser[username]))
	copy(conns, r.byUser[username])
	r.mu.RUnlock()

	for _, c := range conns {
		fn(c)
	}
}
