package safestreet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/safestreet/safestreet-go/guard"
	"github.com/safestreet/safestreet-go/internal/notify"
	"github.com/safestreet/safestreet-go/internal/rate"
	"github.com/safestreet/safestreet-go/session"
)

// Client is the authenticated HTTP client for the SafeStreet API. Every
// domain call flows through [Client.Do]: the request stage attaches the CSRF
// header to state-changing calls, and the response stage recovers 401s
// through the single-flight refresh coordinator.
//
// Client instances are built once via [Builder.Build] and are safe for
// concurrent use.
type Client struct {
	config      Config
	httpClient  *http.Client
	baseURL     *url.URL
	sessions    *session.Manager
	coordinator *refreshCoordinator
	notifier    *notify.Dispatcher
	metrics     *Metrics
	pacer       *rate.Limiter
	guards      *guard.Guard
	logger      zerolog.Logger
	now         func() time.Time
}

// Guard returns the route guard bound to this client's session state and
// role verifier.
func (c *Client) Guard() *guard.Guard {
	if c == nil {
		return nil
	}
	return c.guards
}

// Sessions exposes the session manager so guards and integrations can read
// state and subscribe to changes.
func (c *Client) Sessions() *session.Manager {
	if c == nil {
		return nil
	}
	return c.sessions
}

// Rehydrate loads a previously persisted session from durable storage. Call
// once at process start; corrupt or missing data leaves the client logged
// out.
func (c *Client) Rehydrate(ctx context.Context) error {
	if c == nil {
		return ErrClientNotReady
	}
	return c.sessions.Rehydrate(ctx)
}

// MarkActive signals that the application regained the foreground after an
// idle period. When no refresh is in flight, the attempt counter resets so a
// long-backgrounded process gets a fresh start.
func (c *Client) MarkActive() {
	if c == nil {
		return
	}
	c.coordinator.markActive()
}

// Close releases the client: queued refresh waiters are rejected with
// [ErrClientClosed] so none leak, and the notification dispatcher drains.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.coordinator.close()
	if c.notifier != nil {
		c.notifier.Close()
	}
}

// MetricsSnapshot returns a deep copy of all client metrics.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

// NotificationsDropped reports how many notifications the dispatcher had to
// drop because its buffer was full.
func (c *Client) NotificationsDropped() uint64 {
	if c == nil {
		return 0
	}
	return c.notifier.Dropped()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

// Do executes one API request through the full interceptor pipeline.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c == nil || c.httpClient == nil {
		return nil, ErrClientNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// The refresh endpoint is never paced; delaying it would stall every
	// queued request behind the coordinator.
	if !isRefreshPath(req.Path) {
		if err := c.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := c.now()
	resp, err := c.send(ctx, req)
	if err != nil {
		c.metricInc(MetricRequestFailure)
		return nil, err
	}
	c.metrics.Observe(MetricRequestLatency, c.now().Sub(start))

	if resp.Status >= 200 && resp.Status < 300 {
		c.metricInc(MetricRequestSuccess)
		return resp, nil
	}

	if resp.Status == http.StatusUnauthorized &&
		!req.SkipAuth && !req.retried && !isRefreshPath(req.Path) {
		return c.recover401(ctx, req)
	}

	return nil, c.failRequest(ctx, req, resp)
}

// failRequest converts a non-2xx response into a typed error and surfaces
// the user-visible notification for it.
func (c *Client) failRequest(ctx context.Context, req Request, resp *Response) error {
	c.metricInc(MetricRequestFailure)
	apiErr := newAPIError(resp.Status, resp.Body, req.Path)

	event := "request_failed"
	message := apiErr.Message
	if resp.Status == http.StatusForbidden {
		event = "access_denied"
		message = "Access denied. Your role may have changed."
	}
	c.emit(ctx, notify.Notification{
		Timestamp: c.now(),
		Level:     notify.LevelTransient,
		Event:     event,
		Message:   message,
		Status:    resp.Status,
		Path:      req.Path,
	})

	c.logger.Debug().
		Str("path", req.Path).
		Str("method", req.Method).
		Int("status", resp.Status).
		Msg("request failed")

	return apiErr
}

// send performs a single HTTP round-trip: header attachment, body encoding,
// timeout handling. It never retries and never inspects the status beyond
// reading the body.
func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	contentType := ""
	switch b := req.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("safestreet: encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	timeout := c.config.HTTP.Timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("safestreet: build request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.HTTP.UserAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	// CSRF attaches only to authenticated, state-changing calls. GET and
	// HEAD never carry it, and SkipAuth bypasses it regardless of method.
	if !req.SkipAuth && mutating(req.Method) {
		if s := c.sessions.Get(); s != nil && s.CSRFToken != "" {
			httpReq.Header.Set("X-CSRF-Token", s.CSRFToken)
		}
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("safestreet: %s %s: %w", req.Method, req.Path, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("safestreet: read response body: %w", err)
	}

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   data,
	}, nil
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("safestreet: invalid path %q: %w", path, err)
	}
	u := *c.baseURL
	u.Path, err = url.JoinPath(c.baseURL.Path, ref.Path)
	if err != nil {
		return "", fmt.Errorf("safestreet: join path %q: %w", path, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String(), nil
}

func (c *Client) emit(ctx context.Context, n notify.Notification) {
	if c == nil || c.notifier == nil {
		return
	}
	c.notifier.Emit(ctx, n)
}

// Convenience wrappers used by the domain API modules.

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

func (c *Client) del(ctx context.Context, path string, out any) error {
	return c.call(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}

func (c *Client) call(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	return resp.DecodeJSON(out)
}
