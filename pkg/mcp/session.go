package mcp

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Session represents one MCP protocol session.
//
// A session is created during the initialize handshake and owns its
// transport state exclusively; nothing here is shared between sessions.
// Close is idempotent and safe to call from any goroutine — in practice
// teardown often runs on a different context than setup (the gateway
// drops the connection, or shutdown sweeps the store), and that
// ordering anomaly is deliberately treated as benign.
type Session struct {
	ID              string
	ProtocolVersion string
	ClientInfo      ClientInfo
	CreatedAt       time.Time

	// lastAccess holds unix nanos; concurrent requests on one session
	// touch it from independent goroutines.
	lastAccess atomic.Int64

	done      chan struct{}
	closeOnce sync.Once
}

// LastAccessedAt reports when the session last served a request.
func (s *Session) LastAccessedAt() time.Time {
	return time.Unix(0, s.lastAccess.Load())
}

func (s *Session) touch() {
	s.lastAccess.Store(time.Now().UnixNano())
}

// Close tears the session down. Repeated or cross-context closes are
// discarded silently.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed when the session has been torn down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Closed reports whether the session has been torn down.
func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// SessionStore manages MCP protocol sessions in memory.
//
// Sessions are tracked via the Mcp-Session-Id header using a sync.Map,
// so concurrent requests on independent sessions never contend.
type SessionStore struct {
	sessions sync.Map // map[string]*Session
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Create creates a new session with a generated UUID.
func (s *SessionStore) Create(params InitializeParams) *Session {
	session := &Session{
		ID:              uuid.New().String(),
		ProtocolVersion: negotiateProtocolVersion(params.ProtocolVersion),
		ClientInfo:      params.ClientInfo,
		CreatedAt:       time.Now(),
		done:            make(chan struct{}),
	}
	session.touch()
	s.sessions.Store(session.ID, session)
	return session
}

// Get retrieves a live session by ID. Returns nil if the session does
// not exist or has already been torn down.
func (s *SessionStore) Get(sessionID string) *Session {
	val, ok := s.sessions.Load(sessionID)
	if !ok {
		return nil
	}
	session, ok := val.(*Session)
	if !ok || session.Closed() {
		return nil
	}
	session.touch()
	return session
}

// Delete closes and removes a session. Unknown ids are ignored; the
// caller may race a disconnect-driven teardown and must not fail for it.
func (s *SessionStore) Delete(sessionID string) {
	if val, ok := s.sessions.LoadAndDelete(sessionID); ok {
		if session, ok := val.(*Session); ok {
			session.Close()
		}
	}
}

// CloseAll tears down every session, for server shutdown.
func (s *SessionStore) CloseAll() {
	s.sessions.Range(func(key, val interface{}) bool {
		if session, ok := val.(*Session); ok {
			session.Close()
		}
		s.sessions.Delete(key)
		return true
	})
}

// negotiateProtocolVersion negotiates the protocol version between
// client and server. Unsupported requests downgrade to the latest
// supported version.
func negotiateProtocolVersion(requested string) string {
	supportedVersions := []string{
		"2024-11-05",
	}

	for _, supported := range supportedVersions {
		if requested == supported {
			return supported
		}
	}

	return "2024-11-05"
}

// validAcceptHeader checks that the Accept header declares both media
// types the Streamable HTTP transport requires.
func validAcceptHeader(accept string) bool {
	return strings.Contains(accept, "application/json") &&
		strings.Contains(accept, "text/event-stream")
}
