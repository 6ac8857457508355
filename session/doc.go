// Package session holds the typed client-side session model and its durable
// storage backends.
//
// A [Session] is the single source of truth for "who is logged in" and whether
// that user's role has been confirmed against the server during this process
// lifetime. Sessions are persisted through the [Storage] interface as a
// versioned JSON envelope; anything that fails to decode is treated as "no
// session" so a corrupt or tampered blob can never resurrect a privilege.
//
// Three backends are provided: [MemoryStorage] for tests, [FileStorage] for
// single-process tools, and [RedisStorage] for fleets of processes that share
// one session the way browser tabs share local storage.
package session
