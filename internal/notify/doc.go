// Package notify implements the user-visible notification pipeline: a
// buffered asynchronous dispatcher that forwards toast-style notices (request
// failures, access denials, session expiry) to a pluggable sink without ever
// blocking the request path.
package notify
