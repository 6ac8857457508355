package safestreet

import "errors"

var (
	// ErrAuthenticationRequired is returned when a 401 arrives inside the
	// refresh cooldown window and no authenticated session is present.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrSessionExpired is the terminal failure after refresh attempts are
	// exhausted or the refresh endpoint definitively rejects the session.
	ErrSessionExpired = errors.New("session expired")
	// ErrAccessDenied maps HTTP 403: the server refused the cached role.
	ErrAccessDenied = errors.New("access denied")
	// ErrApprovalPending rejects a client-account login that is still
	// awaiting review. Raised locally, before any session is persisted.
	ErrApprovalPending = errors.New("client account pending approval")
	// ErrApprovalRejected rejects a login for a declined client account.
	ErrApprovalRejected = errors.New("client account rejected")
	// ErrEmptyUserPayload is returned when an auth endpoint answered 2xx but
	// omitted the user object.
	ErrEmptyUserPayload = errors.New("server returned no user")
	// ErrClientClosed rejects queued refresh waiters when the client shuts
	// down so no caller is left waiting on a promise that never settles.
	ErrClientClosed = errors.New("client closed")
	// ErrClientNotReady is returned by methods on a nil or unbuilt client.
	ErrClientNotReady = errors.New("client not initialized")
	// ErrRequestFailed is the generic wrapper for non-auth HTTP failures.
	ErrRequestFailed = errors.New("request failed")
)
