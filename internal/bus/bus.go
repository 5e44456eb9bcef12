// Package bus decouples chat gateways from the conversation router.
package bus

import (
	"context"
	"sync"
	"time"
)

// Event kinds. A structured action is a discrete token from a button press;
// text is free-form user input.
const (
	KindAction = "action"
	KindText   = "text"
)

// Inbound is a user interaction forwarded by a gateway. Exactly one of
// Token/Content is meaningful depending on Kind. Channel+ChatID identify the
// conversation; SenderID identifies the user driving it.
type Inbound struct {
	Channel   string    `json:"channel"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	TraceID   string    `json:"trace_id"`
	Kind      string    `json:"kind"`
	Token     string    `json:"token,omitempty"`
	Content   string    `json:"content,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationKey identifies the logical conversation an event belongs to.
func (m *Inbound) ConversationKey() string {
	return m.Channel + ":" + m.ChatID
}

// Button is one clickable action in a render. Exactly one of Token/OpenURL
// is set: tokens round-trip through the router, URLs open on the platform
// and never come back.
type Button struct {
	Label   string `json:"label"`
	Token   string `json:"token,omitempty"`
	OpenURL string `json:"open_url,omitempty"`
}

// Render is an outbound instruction for a gateway: body text plus ordered
// rows of buttons.
type Render struct {
	Channel string     `json:"channel"`
	ChatID  string     `json:"chat_id"`
	TraceID string     `json:"trace_id"`
	Body    string     `json:"body"`
	Rows    [][]Button `json:"rows,omitempty"`
}

// Bus carries events from gateways to the router and renders back.
type Bus struct {
	inbound  chan *Inbound
	outbound chan *Render
	subs     map[string][]func(*Render)
	mu       sync.RWMutex
}

// New creates a message bus.
func New() *Bus {
	return &Bus{
		inbound:  make(chan *Inbound, 100),
		outbound: make(chan *Render, 100),
		subs:     make(map[string][]func(*Render)),
	}
}

// PublishInbound hands a user event to the router side.
func (b *Bus) PublishInbound(ev *Inbound) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	b.inbound <- ev
}

// ConsumeInbound blocks until an event is available or ctx is cancelled.
func (b *Bus) ConsumeInbound(ctx context.Context) (*Inbound, error) {
	select {
	case ev := <-b.inbound:
		return ev, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// PublishRender queues a render instruction for the owning gateway.
func (b *Bus) PublishRender(r *Render) {
	b.outbound <- r
}

// Subscribe registers a callback for renders targeted at a channel.
func (b *Bus) Subscribe(channel string, callback func(*Render)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[channel] = append(b.subs[channel], callback)
}

// DispatchRenders fans renders out to subscribers until ctx is cancelled.
// Run as a goroutine.
func (b *Bus) DispatchRenders(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-b.outbound:
			b.mu.RLock()
			callbacks := b.subs[r.Channel]
			b.mu.RUnlock()
			for _, cb := range callbacks {
				cb(r)
			}
		}
	}
}
