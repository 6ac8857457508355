package safestreet

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/safestreet/safestreet-go/session"
)

func testConfig(baseURL string) Config {
	cfg := defaultConfig()
	cfg.HTTP.BaseURL = baseURL
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.Refresh.Cooldown = 50 * time.Millisecond
	cfg.Refresh.RetryDelay = 5 * time.Millisecond
	cfg.Refresh.Timeout = 5 * time.Second
	return cfg
}

func newTestClient(t *testing.T, srv *httptest.Server, mutate func(*Builder)) *Client {
	t.Helper()

	b := New().WithConfig(testConfig(srv.URL))
	if mutate != nil {
		mutate(b)
	}
	client, err := b.Build()
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func seedSession(t *testing.T, c *Client, role session.Role) {
	t.Helper()

	err := c.sessions.Set(context.Background(), &session.Session{
		User: &session.User{
			ID:       "u-1",
			FullName: "Test User",
			Email:    "test@example.com",
			Role:     role,
		},
		CSRFToken:    "csrf-token-1",
		RoleVerified: true,
	})
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}
