package safestreet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/safestreet/safestreet-go/internal/notify"
	"github.com/safestreet/safestreet-go/session"
)

// refreshCoordinator serializes session refreshes: at most one refresh
// network call is ever in flight, every 401 observed meanwhile waits on its
// shared outcome in FIFO order, and consecutive failures are capped before
// the session is torn down.
//
// It is an owned object constructed once at Build time rather than package
// state, so ownership and lifetime are explicit and tests can build as many
// as they like.
type refreshCoordinator struct {
	mu          sync.Mutex
	refreshing  bool
	waiters     []chan error
	attempts    int
	lastAttempt time.Time
	closed      bool

	cfg RefreshConfig
	now func() time.Time
}

func newRefreshCoordinator(cfg RefreshConfig, now func() time.Time) *refreshCoordinator {
	if now == nil {
		now = time.Now
	}
	return &refreshCoordinator{cfg: cfg, now: now}
}

type admitAction int

const (
	// admitLead: caller owns the refresh call.
	admitLead admitAction = iota
	// admitWait: a refresh is in flight; caller waits on the returned channel.
	admitWait
	// admitCooldown: a refresh settled moments ago; retry without refreshing.
	admitCooldown
	// admitExhausted: the attempt cap is reached; session must be torn down.
	admitExhausted
	// admitClosed: the client is shutting down.
	admitClosed
)

// admit classifies one 401 against the coordinator state. The state
// transition for the lead caller (refreshing=true, attempt recorded) happens
// inside the same critical section, so two racing 401s can never both lead.
func (rc *refreshCoordinator) admit() (admitAction, chan error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.closed {
		return admitClosed, nil
	}

	if rc.refreshing {
		ch := make(chan error, 1)
		rc.waiters = append(rc.waiters, ch)
		return admitWait, ch
	}

	if rc.attempts >= rc.cfg.MaxAttempts {
		return admitExhausted, nil
	}

	if rc.cfg.Cooldown > 0 && !rc.lastAttempt.IsZero() &&
		rc.now().Sub(rc.lastAttempt) < rc.cfg.Cooldown {
		return admitCooldown, nil
	}

	rc.refreshing = true
	rc.lastAttempt = rc.now()
	rc.attempts++
	return admitLead, nil
}

// settleSuccess resets the attempt counter and releases every waiter in
// enqueue order. Attempts reset here and only here: a failing refresh must
// accumulate toward the cap, not wipe its own evidence.
func (rc *refreshCoordinator) settleSuccess() {
	rc.mu.Lock()
	waiters := rc.waiters
	rc.waiters = nil
	rc.refreshing = false
	rc.attempts = 0
	rc.mu.Unlock()

	for _, ch := range waiters {
		ch <- nil
	}
}

// settleFailure releases every waiter with the refresh error, in enqueue
// order, and reports whether the failure consumed the last allowed attempt.
func (rc *refreshCoordinator) settleFailure(err error) (exhausted bool) {
	rc.mu.Lock()
	waiters := rc.waiters
	rc.waiters = nil
	rc.refreshing = false
	exhausted = rc.attempts >= rc.cfg.MaxAttempts
	rc.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}
	return exhausted
}

// markActive resets the attempt counter when idle. Called when the
// application regains the foreground: a long background gap invalidates the
// evidence the counter accumulated.
func (rc *refreshCoordinator) markActive() {
	rc.mu.Lock()
	if !rc.refreshing {
		rc.attempts = 0
	}
	rc.mu.Unlock()
}

// close rejects all queued waiters so no caller is left waiting on an
// outcome that will never arrive.
func (rc *refreshCoordinator) close() {
	rc.mu.Lock()
	waiters := rc.waiters
	rc.waiters = nil
	rc.refreshing = false
	rc.closed = true
	rc.mu.Unlock()

	for _, ch := range waiters {
		ch <- ErrClientClosed
	}
}

// recover401 is the response-stage recovery path for an authenticated
// request that observed a 401.
func (c *Client) recover401(ctx context.Context, req Request) (*Response, error) {
	req.retried = true

	action, waiter := c.coordinator.admit()
	switch action {
	case admitClosed:
		return nil, ErrClientClosed

	case admitWait:
		c.metricInc(MetricRefreshCoalesced)
		select {
		case err := <-waiter:
			if err != nil {
				return nil, err
			}
			c.metricInc(MetricRequestRetried)
			return c.Do(ctx, req)
		case <-ctx.Done():
			return nil, ctx.Err()
		}

	case admitCooldown:
		// A refresh settled within the cooldown window. Without a session
		// there is nothing to wait for; with one, assume a sibling process
		// already renewed the shared credentials and replay once.
		if !c.sessions.Get().Authenticated() {
			return nil, fmt.Errorf("%w: no session during refresh cooldown", ErrAuthenticationRequired)
		}
		c.metricInc(MetricRefreshCooldownRetry)
		select {
		case <-time.After(c.config.Refresh.RetryDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		c.metricInc(MetricRequestRetried)
		return c.Do(ctx, req)

	case admitExhausted:
		c.forceLogout(ctx, "Your session has expired. Please log in again.")
		return nil, fmt.Errorf("%w: refresh attempts exhausted", ErrSessionExpired)

	default: // admitLead
		if err := c.leadRefresh(ctx); err != nil {
			return nil, err
		}
		c.metricInc(MetricRequestRetried)
		return c.Do(ctx, req)
	}
}

// leadRefresh issues the single refresh network call on behalf of every
// queued caller and settles the coordinator with its outcome.
func (c *Client) leadRefresh(ctx context.Context) error {
	// The refresh outcome is shared by all waiters, so it must not die with
	// the one request that happened to lead it.
	refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.config.Refresh.Timeout)
	defer cancel()

	resp, sendErr := c.send(refreshCtx, Request{
		Method:   http.MethodPost,
		Path:     refreshPath,
		Body:     struct{}{},
		SkipAuth: true,
	})

	var refreshErr error
	definitive := false
	switch {
	case sendErr != nil:
		// Network error or timeout: the session may still be good.
		refreshErr = fmt.Errorf("refresh call: %w", sendErr)
	case resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden:
		refreshErr = newAPIError(resp.Status, resp.Body, refreshPath)
		definitive = true
	case resp.Status < 200 || resp.Status >= 300:
		refreshErr = newAPIError(resp.Status, resp.Body, refreshPath)
	}

	if refreshErr == nil {
		c.adoptRefreshedCredentials(ctx, resp.Body)
		c.coordinator.settleSuccess()
		c.metricInc(MetricRefreshSuccess)
		c.logger.Debug().Msg("session refreshed")
		return nil
	}

	c.metricInc(MetricRefreshFailure)
	exhausted := c.coordinator.settleFailure(refreshErr)
	c.logger.Warn().Err(refreshErr).Bool("definitive", definitive || exhausted).Msg("session refresh failed")

	if definitive || exhausted {
		c.forceLogout(ctx, "Your session has expired. Please log in again.")
		return fmt.Errorf("%w: %v", ErrSessionExpired, refreshErr)
	}
	return refreshErr
}

// adoptRefreshedCredentials stores the rotated CSRF token (and user record,
// when the server includes one) from a successful refresh response.
func (c *Client) adoptRefreshedCredentials(ctx context.Context, body []byte) {
	var payload struct {
		CSRFToken string        `json:"csrfToken"`
		User      *session.User `json:"user"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return
	}

	s := c.sessions.Get()
	if s == nil {
		return
	}
	if payload.CSRFToken != "" {
		s.CSRFToken = payload.CSRFToken
	}
	if payload.User != nil {
		s.User = payload.User
	}
	_ = c.sessions.Set(ctx, s)
}

// forceLogout destroys the session unconditionally and emits the blocking
// session-expired notification pointing at the login page.
func (c *Client) forceLogout(ctx context.Context, message string) {
	c.sessions.Clear(ctx)
	c.metricInc(MetricForcedLogout)
	c.emit(ctx, notify.Notification{
		Timestamp: c.now(),
		Level:     notify.LevelBlocking,
		Event:     "session_expired",
		Message:   message,
		Status:    http.StatusUnauthorized,
		Path:      c.config.Guard.LoginPath,
	})
}
