package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/homecare/homecare-app/models"
)

type stubChatService struct {
	history []models.Message
}

func (s *stubChatService) SendMessage(ctx context.Context, chatID string, senderID uint, text string) (*models.Message, error) {
	return nil, nil
}

func (s *stubChatService) History(ctx context.Context, chatID string, viewerID uint) ([]models.Message, error) {
	return s.history, nil
}

func (s *stubChatService) MarkChatSeen(ctx context.Context, chatID string, viewerID uint) error {
	return nil
}

func chatHistory(n int) []models.Message {
	base := time.Now().UTC()
	history := make([]models.Message, n)
	for i := range history {
		history[i] = models.Message{
			ID:        fmt.Sprintf("m%d", i),
			ChatID:    "1_2",
			SenderID:  1,
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		}
	}
	return history
}

func nextFrame(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case payload := <-c.send:
		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			t.Fatalf("decode frame: %v", err)
		}
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
	}
	return Frame{}
}

func TestSubscribeChatReplaysFullHistory(t *testing.T) {
	// A history several times the send buffer must arrive whole and in
	// order, not truncated to whatever the buffer holds.
	history := chatHistory(200)
	hub := NewHub()
	client := NewClient(nil, &stubChatService{history: history}, hub, nil, nil, 2)

	go client.subscribeChat(context.Background(), "1_2")

	for i := range history {
		frame := nextFrame(t, client)
		if frame.Type != "message" || frame.Message == nil {
			t.Fatalf("frame %d: got %+v", i, frame)
		}
		if want := fmt.Sprintf("m%d", i); frame.Message.ID != want {
			t.Fatalf("frame %d: got %s, want %s", i, frame.Message.ID, want)
		}
	}

	// The live forwarder attaches once replay completes.
	deadline := time.Now().Add(time.Second)
	for hub.Subscribers("1_2") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscription never attached")
		}
		time.Sleep(time.Millisecond)
	}

	// A live duplicate of a replayed message is skipped; a new message
	// follows the replayed ones, never before them.
	hub.Publish(history[5])
	hub.Publish(models.Message{ID: "m200", ChatID: "1_2", SenderID: 1, Text: "fresh"})

	frame := nextFrame(t, client)
	if frame.Message == nil || frame.Message.ID != "m200" {
		t.Fatalf("after replay: got %+v, want m200", frame)
	}
}

func TestSubscribeChatAbortsOnTeardown(t *testing.T) {
	// Nobody drains the send channel; teardown must unblock the replay
	// and release the hub subscription rather than leak it.
	history := chatHistory(200)
	hub := NewHub()
	client := NewClient(nil, &stubChatService{history: history}, hub, nil, nil, 2)

	finished := make(chan struct{})
	go func() {
		client.subscribeChat(context.Background(), "1_2")
		close(finished)
	}()

	close(client.done)

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("replay did not unblock on teardown")
	}
	if got := hub.Subscribers("1_2"); got != 0 {
		t.Errorf("Subscribers = %d, want 0 after aborted replay", got)
	}
}
