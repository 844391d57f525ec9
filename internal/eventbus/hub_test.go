package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx, 4)
	hub.Publish(Event{Type: "sheet", Data: map[string]any{"level": 2}})

	select {
	case evt := <-ch:
		if evt.Type != "sheet" {
			t.Fatalf("type = %q, want sheet", evt.Type)
		}
		if evt.Timestamp == 0 {
			t.Fatalf("timestamp not stamped")
		}
	case <-time.After(time.Second):
		t.Fatalf("no event delivered")
	}

	cancel()
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-time.After(time.Second):
			t.Fatalf("channel not closed after cancel")
		}
	}
}

func TestHubDropsWhenFull(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx, 1)
	hub.Publish(Event{Type: "a"})
	hub.Publish(Event{Type: "b"}) // buffer full, dropped

	evt := <-ch
	if evt.Type != "a" {
		t.Fatalf("type = %q, want a", evt.Type)
	}
	select {
	case evt := <-ch:
		t.Fatalf("unexpected second event %q", evt.Type)
	default:
	}
}
