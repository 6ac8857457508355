package safestreet

import (
	"io"

	"github.com/safestreet/safestreet-go/internal/notify"
)

// Notification is a user-visible notice emitted by the client: transient
// toasts for recoverable request failures, blocking notices for terminal
// session expiry.
type Notification = notify.Notification

// NotificationLevel distinguishes toasts from blocking notices.
type NotificationLevel = notify.Level

const (
	// NotifyTransient is a short-lived toast without navigation.
	NotifyTransient = notify.LevelTransient
	// NotifyBlocking accompanies a forced redirect to the login page.
	NotifyBlocking = notify.LevelBlocking
)

// NotifySink receives [Notification] values from the client's dispatcher.
type NotifySink = notify.Sink

// NoOpSink is a [NotifySink] that silently discards all notifications.
type NoOpSink = notify.NoOpSink

// ChannelSink is a buffered channel-based [NotifySink] for UI loops.
type ChannelSink = notify.ChannelSink

// JSONWriterSink is a [NotifySink] that writes one JSON object per line.
type JSONWriterSink = notify.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return notify.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return notify.NewJSONWriterSink(w)
}
