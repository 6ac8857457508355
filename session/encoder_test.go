package session

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func validSession() *Session {
	return &Session{
		User: &User{
			ID:       "u-1",
			FullName: "Alice",
			Email:    "alice@example.com",
			Role:     RoleUser,
		},
		CSRFToken:    "tok",
		RoleVerified: true,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
		UpdatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	s := validSession()

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.User.ID != s.User.ID || got.User.Role != s.User.Role {
		t.Fatalf("user mismatch: %+v", got.User)
	}
	if got.CSRFToken != "tok" || !got.RoleVerified {
		t.Fatalf("session fields mismatch: %+v", got)
	}
}

func TestDecodeFailsClosed(t *testing.T) {
	cases := map[string][]byte{
		"empty":           nil,
		"not json":        []byte("}{ garbage"),
		"unknown version": []byte(`{"v":9,"session":{"user":{"id":"u-1","role":"user"}}}`),
		"missing user":    []byte(`{"v":2,"session":{"csrfToken":"tok"}}`),
		"empty user id":   []byte(`{"v":2,"session":{"user":{"id":"","role":"user"}}}`),
		"unknown role":    []byte(`{"v":2,"session":{"user":{"id":"u-1","role":"root"}}}`),
	}

	for name, data := range cases {
		if _, err := Decode(data); !errors.Is(err, ErrCorruptSession) {
			t.Fatalf("%s: got %v, want ErrCorruptSession", name, err)
		}
	}
}

func TestDecodeV1DropsVerifiedFlag(t *testing.T) {
	blob := []byte(`{"v":1,"session":{"user":{"id":"u-1","role":"admin"},"csrfToken":"tok","roleVerified":true}}`)

	s, err := Decode(blob)
	if err != nil {
		t.Fatalf("decode v1: %v", err)
	}
	if s.RoleVerified {
		t.Fatal("verified flag survived a v1 blob")
	}
	if s.User.Role != RoleAdmin {
		t.Fatalf("role = %q", s.User.Role)
	}
}

func TestEncodeNilSession(t *testing.T) {
	if _, err := Encode(nil); err == nil {
		t.Fatal("encoded a nil session")
	}
}

func TestEncodedShapeIsVersioned(t *testing.T) {
	data, err := Encode(validSession())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var probe struct {
		V int `json:"v"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if probe.V != envelopeVersionCurrent {
		t.Fatalf("envelope version = %d, want %d", probe.V, envelopeVersionCurrent)
	}
}
