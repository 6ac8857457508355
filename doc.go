// Package safestreet is the Go client SDK for the SafeStreet incident-reporting
// platform API. It wraps every backend call in an authenticated HTTP client that
// attaches CSRF tokens to state-changing requests, coordinates a single-flight
// session refresh shared by all concurrent callers, and forces logout once
// refresh attempts are exhausted.
//
// The package is designed for concurrent use: Client methods are safe to call
// from multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// safestreet is the public surface. It exposes [Client], [Builder], [Config],
// the domain API methods, and value types (MetricsSnapshot, Report, etc.).
// Session persistence lives in the session subpackage, access decisions in the
// guard subpackage, and all internal coordination — notification dispatch,
// request pacing — under internal/.
//
// # What this package must NOT do
//
//   - Expose storage backends, Redis clients, or encoding details in its
//     public API beyond the session.Storage interface.
//   - Perform network I/O outside of Client methods (construction via Builder
//     is allocation-only until Build).
//   - Retry a request more than once per 401; the refresh coordinator owns all
//     retry policy.
//
// # Concurrency contract
//
// For any number of requests that observe a 401 while no refresh is in flight,
// exactly one POST /auth/refresh is issued; every other caller waits on the
// shared outcome in FIFO order. Session state transitions are atomic with
// respect to that coordinator.
package safestreet
