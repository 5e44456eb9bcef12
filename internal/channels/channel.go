package channels

import (
	"context"

	"github.com/DukkanBot/DukkanBot/internal/bus"
)

// Channel defines the interface for chat platforms (Telegram, Slack, etc).
type Channel interface {
	// Name returns the channel name (e.g. "telegram").
	Name() string
	// Start starts the channel listener.
	Start(ctx context.Context) error
	// Stop stops the channel listener.
	Stop() error
	// Send delivers a rendered view to a specific chat.
	Send(ctx context.Context, r *bus.Render) error
}

// BaseChannel provides common functionality for channels.
type BaseChannel struct {
	Bus *bus.Bus
}
