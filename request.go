package safestreet

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Request describes one outbound API call. Domain methods build these; Do
// executes them through the interceptor pipeline.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	// Body is JSON-marshalled unless it is a []byte, which is sent raw with
	// the Content-Type already present in Header.
	Body any
	// SkipAuth bypasses CSRF attachment and 401 recovery. Used for public
	// endpoints and for the refresh call itself.
	SkipAuth bool
	// Timeout overrides the client default for this call only.
	Timeout time.Duration

	// retried marks a request already replayed once after a 401, so a second
	// 401 propagates instead of looping.
	retried bool
}

// Response is the decoded-enough form of a backend reply.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	if r == nil || len(r.Body) == 0 {
		return fmt.Errorf("safestreet: empty response body")
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("safestreet: decode response: %w", err)
	}
	return nil
}

// mutating reports whether the method carries state-changing semantics and
// therefore needs the CSRF header.
func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

const refreshPath = "/auth/refresh"

// isRefreshPath guards against recursively intercepting the refresh
// endpoint's own failures.
func isRefreshPath(path string) bool {
	return strings.TrimSuffix(path, "/") == refreshPath
}
