package notify

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Level distinguishes short-lived toasts from blocking notices.
type Level string

const (
	// LevelTransient is a short-lived toast without navigation.
	LevelTransient Level = "transient"
	// LevelBlocking accompanies a forced redirect, e.g. session expiry.
	LevelBlocking Level = "blocking"
)

// Notification is a single user-visible notice emitted by the client.
type Notification struct {
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Event     string    `json:"event"`
	Message   string    `json:"message"`
	Status    int       `json:"status,omitempty"`
	Path      string    `json:"path,omitempty"`
}

// Sink receives emitted notifications.
type Sink interface {
	Emit(ctx context.Context, n Notification)
}

// NoOpSink drops notifications.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, Notification) {}

// ChannelSink writes notifications into a buffered channel for a UI loop to
// drain.
type ChannelSink struct {
	notices chan Notification
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		notices: make(chan Notification, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, n Notification) {
	select {
	case s.notices <- n:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Notifications() <-chan Notification {
	return s.notices
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, n Notification) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
