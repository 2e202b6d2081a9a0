package testing

import (
	stdtesting "testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ems-portal/ems-portal/internal/shared"
)

// SessionTTL is the lifetime of sessions handed out by Sessions.
const SessionTTL = time.Hour

// Redis starts a miniredis server scoped to t and returns a client for it.
func Redis(t stdtesting.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// Sessions returns an insecure-cookie session manager over a fresh
// miniredis.
func Sessions(t stdtesting.TB, cookieName string) (*shared.SessionManager, *miniredis.Miniredis) {
	t.Helper()
	client, mr := Redis(t)
	return shared.NewSessionManager(client, cookieName, "test-session-secret", SessionTTL, false), mr
}
