package session

import (
	"encoding/json"
	"errors"
)

const (
	envelopeVersionCurrent = 2
	envelopeVersionV1      = 1
)

// ErrCorruptSession is returned when a persisted session blob cannot be
// decoded. Callers must treat it as "no session".
var ErrCorruptSession = errors.New("corrupt session data")

// envelope wraps the session with a schema version so older persisted blobs
// can be recognized and future ones rejected instead of misread.
type envelope struct {
	Version int     `json:"v"`
	Session Session `json:"session"`
}

// Encode serializes s into the current versioned envelope.
func Encode(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("nil session")
	}
	return json.Marshal(envelope{
		Version: envelopeVersionCurrent,
		Session: *s,
	})
}

// Decode parses a persisted envelope. Unknown versions, invalid JSON, a
// missing user record, or an unknown role all fail closed with
// [ErrCorruptSession].
func Decode(data []byte) (*Session, error) {
	if len(data) == 0 {
		return nil, ErrCorruptSession
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, ErrCorruptSession
	}
	if env.Version != envelopeVersionCurrent && env.Version != envelopeVersionV1 {
		return nil, ErrCorruptSession
	}

	s := env.Session
	if s.User == nil || s.User.ID == "" {
		return nil, ErrCorruptSession
	}
	if !s.User.Role.Valid() {
		return nil, ErrCorruptSession
	}

	// V1 blobs predate the verified flag; verification is always re-earned
	// per process, so the flag never survives a reload anyway.
	if env.Version == envelopeVersionV1 {
		s.RoleVerified = false
	}

	return &s, nil
}
