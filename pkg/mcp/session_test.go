package mcp

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := store.Create(InitializeParams{
		ProtocolVersion: "2024-11-05",
		ClientInfo:      ClientInfo{Name: "client"},
	})
	require.NotEmpty(t, session.ID)
	assert.Equal(t, "2024-11-05", session.ProtocolVersion)
	assert.False(t, session.Closed())

	got := store.Get(session.ID)
	require.NotNil(t, got)
	assert.Equal(t, session.ID, got.ID)

	store.Delete(session.ID)
	assert.Nil(t, store.Get(session.ID))
	assert.True(t, session.Closed())
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(InitializeParams{})

	// Teardown regularly races between the request path and shutdown;
	// repeated closes from any goroutine must be silently discarded.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session.Close()
		}()
	}
	wg.Wait()

	session.Close()
	assert.True(t, session.Closed())

	select {
	case <-session.Done():
	default:
		t.Fatal("Done channel not closed")
	}
}

func TestConcurrentGetsTouchOneSession(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(InitializeParams{})
	created := session.LastAccessedAt()

	// Parallel requests carrying the same Mcp-Session-Id hit Get at
	// once; the access timestamp update must be race-free.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				require.NotNil(t, store.Get(session.ID))
			}
		}()
	}
	wg.Wait()

	assert.False(t, session.LastAccessedAt().Before(created))
}

func TestGetSkipsClosedSessions(t *testing.T) {
	store := NewSessionStore()
	session := store.Create(InitializeParams{})

	session.Close()
	assert.Nil(t, store.Get(session.ID))
}

func TestDeleteUnknownSessionIgnored(t *testing.T) {
	store := NewSessionStore()
	store.Delete("never-existed")
}

func TestGetUnknownSession(t *testing.T) {
	store := NewSessionStore()
	assert.Nil(t, store.Get("never-existed"))
}

func TestCloseAll(t *testing.T) {
	store := NewSessionStore()
	a := store.Create(InitializeParams{})
	b := store.Create(InitializeParams{})

	store.CloseAll()

	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
	assert.Nil(t, store.Get(a.ID))
	assert.Nil(t, store.Get(b.ID))
}

func TestNegotiateProtocolVersion(t *testing.T) {
	tests := []struct {
		requested string
		want      string
	}{
		{"2024-11-05", "2024-11-05"},
		{"2099-01-01", "2024-11-05"},
		{"", "2024-11-05"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, negotiateProtocolVersion(tt.requested), "requested %q", tt.requested)
	}
}

func TestValidAcceptHeader(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"application/json, text/event-stream", true},
		{"text/event-stream, application/json", true},
		{"application/json", false},
		{"text/event-stream", false},
		{"", false},
		{"*/*", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validAcceptHeader(tt.accept), "accept %q", tt.accept)
	}
}
