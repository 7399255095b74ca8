package realtime

import (
	"fmt"
	"testing"

	"github.com/homecare/homecare-app/models"
)

func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	sub, cancel := hub.Subscribe("1_2")
	defer cancel()

	if got := hub.Subscribers("1_2"); got != 1 {
		t.Fatalf("Subscribers = %d, want 1", got)
	}

	hub.Publish(models.Message{ID: "m1", ChatID: "1_2", SenderID: 1, Text: "hi"})

	msg := <-sub.C
	if msg.ID != "m1" || msg.Text != "hi" {
		t.Errorf("got %+v", msg)
	}
}

func TestHubPublishOrdering(t *testing.T) {
	hub := NewHub()
	sub, cancel := hub.Subscribe("1_2")
	defer cancel()

	for i := 0; i < 10; i++ {
		hub.Publish(models.Message{ID: fmt.Sprintf("m%d", i), ChatID: "1_2"})
	}
	for i := 0; i < 10; i++ {
		msg := <-sub.C
		if want := fmt.Sprintf("m%d", i); msg.ID != want {
			t.Fatalf("message %d: got %s, want %s", i, msg.ID, want)
		}
	}
}

func TestHubChatIsolation(t *testing.T) {
	hub := NewHub()
	a, cancelA := hub.Subscribe("1_2")
	defer cancelA()
	b, cancelB := hub.Subscribe("3_4")
	defer cancelB()

	hub.Publish(models.Message{ID: "m1", ChatID: "1_2"})

	if msg := <-a.C; msg.ID != "m1" {
		t.Errorf("got %+v", msg)
	}
	select {
	case msg := <-b.C:
		t.Errorf("chat 3_4 received foreign message %+v", msg)
	default:
	}
}

func TestHubCancelDetaches(t *testing.T) {
	hub := NewHub()
	sub, cancel := hub.Subscribe("1_2")

	cancel()
	cancel() // idempotent

	if got := hub.Subscribers("1_2"); got != 0 {
		t.Errorf("Subscribers = %d, want 0", got)
	}
	if _, open := <-sub.C; open {
		t.Error("channel should be closed after cancel")
	}

	// Publishing after the last cancel must not panic.
	hub.Publish(models.Message{ID: "m1", ChatID: "1_2"})
}

func TestHubDropsSlowConsumer(t *testing.T) {
	hub := NewHub()
	sub, cancel := hub.Subscribe("1_2")
	defer cancel()

	// Overflow the buffer without draining; the hub must detach rather
	// than block.
	for i := 0; i < cap(sub.C)+5; i++ {
		hub.Publish(models.Message{ID: fmt.Sprintf("m%d", i), ChatID: "1_2"})
	}

	if got := hub.Subscribers("1_2"); got != 0 {
		t.Errorf("Subscribers = %d, want 0 after slow-consumer drop", got)
	}

	// Buffered messages drain, then the closed channel reports it.
	for {
		if _, open := <-sub.C; !open {
			break
		}
	}
}
