package realtime

import (
	"sync"

	"github.com/homecare/homecare-app/models"
)

// Hub fans chat messages out to live chat subscribers. Subscriptions are
// explicit handles: every Subscribe is paired with its cancel func on
// view teardown so no listener outlives its connection.
type Hub struct {
	mu    sync.RWMutex
	chats map[string]map[*ChatSub]struct{}
}

// ChatSub is one live subscription to a chat channel.
type ChatSub struct {
	C      chan models.Message
	chatID string
}

func NewHub() *Hub {
	return &Hub{
		chats: make(map[string]map[*ChatSub]struct{}),
	}
}

// Subscribe attaches to a chat's live feed. Within the subscription,
// messages arrive in publish order; the caller replays history before
// draining the channel to get the full restartable stream.
func (h *Hub) Subscribe(chatID string) (*ChatSub, func()) {
	sub := &ChatSub{
		C:      make(chan models.Message, 32),
		chatID: chatID,
	}

	h.mu.Lock()
	set, ok := h.chats[chatID]
	if !ok {
		set = make(map[*ChatSub]struct{})
		h.chats[chatID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.chats[chatID]; ok {
				if _, exists := set[sub]; exists {
					delete(set, sub)
					close(sub.C)
				}
				if len(set) == 0 {
					delete(h.chats, chatID)
				}
			}
		})
	}
	return sub, cancel
}

// Publish delivers a stored message to every subscriber of its chat.
// Slow consumers are dropped instead of blocking the sender; a dropped
// subscriber re-attaches and replays.
func (h *Hub) Publish(msg models.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.chats[msg.ChatID]
	if !ok {
		return
	}
	for sub := range set {
		select {
		case sub.C <- msg:
		default:
			delete(set, sub)
			close(sub.C)
		}
	}
	if len(set) == 0 {
		delete(h.chats, msg.ChatID)
	}
}

// Subscribers reports the live subscriber count of a chat.
func (h *Hub) Subscribers(chatID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.chats[chatID])
}
