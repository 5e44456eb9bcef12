package bus

import (
	"context"
	"testing"
	"time"
)

func TestPublishConsumeInbound(t *testing.T) {
	b := New()
	b.PublishInbound(&Inbound{Channel: "telegram", ChatID: "100", Kind: KindText, Content: "Pizza"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ev, err := b.ConsumeInbound(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ev.Content != "Pizza" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be stamped")
	}
	if ev.ConversationKey() != "telegram:100" {
		t.Fatalf("unexpected conversation key %q", ev.ConversationKey())
	}
}

func TestConsumeInboundCancelled(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.ConsumeInbound(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestDispatchRendersRoutesByChannel(t *testing.T) {
	b := New()
	got := make(chan *Render, 1)
	b.Subscribe("telegram", func(r *Render) { got <- r })
	b.Subscribe("slack", func(r *Render) { t.Errorf("slack subscriber should not fire") })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.DispatchRenders(ctx)

	b.PublishRender(&Render{Channel: "telegram", ChatID: "100", Body: "hello"})

	select {
	case r := <-got:
		if r.Body != "hello" {
			t.Fatalf("unexpected render: %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatalf("render not dispatched")
	}
}
