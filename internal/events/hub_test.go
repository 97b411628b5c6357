package events

import (
	"testing"
	"time"
)

// TestHubPublishSubscribe проверяет доставку события подписчику.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	hub.Publish(Event{Type: TypeBillPaid})

	select {
	case event := <-ch:
		if event.Type != TypeBillPaid {
			t.Fatalf("expected event type %s, got %s", TypeBillPaid, event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestHubUnsubscribe проверяет закрытие канала после отписки.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
}

// TestHubSlowSubscriberDoesNotBlock проверяет, что переполненный канал
// не блокирует публикацию.
func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()

	_, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	for i := 0; i < 100; i++ {
		hub.Publish(Event{Type: TypeTransactionIngested})
	}
}
