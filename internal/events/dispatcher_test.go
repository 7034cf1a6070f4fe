package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishInvokesAllHandlersDespiteFailure(t *testing.T) {
	d := NewInMemoryDispatcher()
	failure := errors.New("webhook down")

	var calls []string
	d.Subscribe(EventSubStatusChanged, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return failure
	})
	d.Subscribe(EventSubStatusChanged, func(ctx context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventSubStatusChanged})
	if len(calls) != 2 || calls[1] != "second" {
		t.Fatalf("calls = %v, want both handlers invoked in order", calls)
	}
	if !errors.Is(err, failure) {
		t.Errorf("Publish error = %v, want it to wrap the handler failure", err)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventBatchImported}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
