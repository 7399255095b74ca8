package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/presence"
)

// ChatService is the mutation/read surface the websocket layer drives.
// Implemented over the store; authorization happens inside.
type ChatService interface {
	SendMessage(ctx context.Context, chatID string, senderID uint, text string) (*models.Message, error)
	History(ctx context.Context, chatID string, viewerID uint) ([]models.Message, error)
	MarkChatSeen(ctx context.Context, chatID string, viewerID uint) error
}

// Frame is the wire envelope in both directions.
type Frame struct {
	Type     string                 `json:"type"`
	ChatID   string                 `json:"chat_id,omitempty"`
	Text     string                 `json:"text,omitempty"`
	Message  *models.Message        `json:"message,omitempty"`
	Presence *models.PresenceRecord `json:"presence,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// Client owns one websocket connection and every subscription opened
// through it. Teardown releases all of them: chat feeds, the presence
// feed, and the presence session itself.
type Client struct {
	conn    *websocket.Conn
	svc     ChatService
	hub     *Hub
	tracker *presence.Tracker
	session *presence.Session
	userID  uint

	send chan []byte
	done chan struct{}

	mu          sync.Mutex
	chatCancels map[string]func()
}

func NewClient(conn *websocket.Conn, svc ChatService, hub *Hub, tracker *presence.Tracker, session *presence.Session, userID uint) *Client {
	return &Client{
		conn:        conn,
		svc:         svc,
		hub:         hub,
		tracker:     tracker,
		session:     session,
		userID:      userID,
		send:        make(chan []byte, 64),
		done:        make(chan struct{}),
		chatCancels: make(map[string]func()),
	}
}

// Serve runs the connection until the peer goes away, then releases every
// subscription. An abrupt disconnect takes the same path as a clean close.
func (c *Client) Serve() {
	presenceCh, cancelPresence := c.tracker.Subscribe(0)

	go c.writePump(c.done)
	go c.forwardPresence(presenceCh, c.done)

	c.conn.SetPingHandler(func(appData string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.session.Heartbeat(ctx); err != nil {
			log.Printf("realtime: heartbeat for user %d: %v", c.userID, err)
		}
		return c.conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	c.readPump()

	close(c.done)
	cancelPresence()
	c.releaseChats()
	c.session.Release()
	_ = c.conn.Close()
}

func (c *Client) readPump() {
	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			c.writeError("invalid frame")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		switch frame.Type {
		case "subscribe":
			c.subscribeChat(ctx, frame.ChatID)
		case "unsubscribe":
			c.unsubscribeChat(frame.ChatID)
		case "message":
			// Delivery comes back through the chat subscription, same as
			// for every other participant.
			if _, err := c.svc.SendMessage(ctx, frame.ChatID, c.userID, frame.Text); err != nil {
				c.writeError(err.Error())
			}
		case "seen":
			if err := c.svc.MarkChatSeen(ctx, frame.ChatID, c.userID); err != nil {
				c.writeError(err.Error())
			}
		default:
			c.writeError("unsupported frame type")
		}
		cancel()
	}
}

// subscribeChat attaches live first, then replays history, then forwards
// the live feed skipping anything already replayed. The stream therefore
// never delivers an older message after a newer one and re-subscribing
// replays the full current state.
func (c *Client) subscribeChat(ctx context.Context, chatID string) {
	c.mu.Lock()
	if _, ok := c.chatCancels[chatID]; ok {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	sub, cancel := c.hub.Subscribe(chatID)

	history, err := c.svc.History(ctx, chatID, c.userID)
	if err != nil {
		cancel()
		c.writeError(err.Error())
		return
	}

	replayed := make(map[string]struct{}, len(history))
	for i := range history {
		msg := history[i]
		replayed[msg.ID] = struct{}{}
		// Replay must not lose frames: wait for the pump instead of
		// dropping, so long histories arrive whole and in order.
		if !c.writeFrameBlocking(Frame{Type: "message", ChatID: chatID, Message: &msg}) {
			cancel()
			return
		}
	}

	c.mu.Lock()
	c.chatCancels[chatID] = cancel
	c.mu.Unlock()

	go func() {
		for msg := range sub.C {
			if _, dup := replayed[msg.ID]; dup {
				continue
			}
			m := msg
			c.writeFrame(Frame{Type: "message", ChatID: chatID, Message: &m})
		}
	}()
}

func (c *Client) unsubscribeChat(chatID string) {
	c.mu.Lock()
	cancel, ok := c.chatCancels[chatID]
	if ok {
		delete(c.chatCancels, chatID)
	}
	c.mu.Unlock()
	if ok {
		cancel()
	}
}

func (c *Client) releaseChats() {
	c.mu.Lock()
	cancels := make([]func(), 0, len(c.chatCancels))
	for _, cancel := range c.chatCancels {
		cancels = append(cancels, cancel)
	}
	c.chatCancels = make(map[string]func())
	c.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (c *Client) forwardPresence(ch <-chan models.PresenceRecord, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			r := rec
			c.writeFrame(Frame{Type: "presence", Presence: &r})
		}
	}
}

func (c *Client) writePump(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeFrame(frame Frame) {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("realtime: encode frame: %v", err)
		return
	}
	select {
	case c.send <- payload:
	default:
		// Slow socket: drop; the client re-syncs by re-subscribing.
	}
}

// writeFrameBlocking queues a frame, waiting for the pump to drain
// instead of dropping. Returns false once the connection is tearing
// down.
func (c *Client) writeFrameBlocking(frame Frame) bool {
	payload, err := json.Marshal(frame)
	if err != nil {
		log.Printf("realtime: encode frame: %v", err)
		return true
	}
	select {
	case c.send <- payload:
		return true
	case <-c.done:
		return false
	}
}

func (c *Client) writeError(message string) {
	c.writeFrame(Frame{Type: "error", Error: message})
}
