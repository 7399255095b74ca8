package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chat is a two-party message thread. Its primary key is derived from the
// participant pair (see ChatID), so either side resolves the same channel
// without coordination.
type Chat struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	ParticipantA  uint      `json:"participant_a"`
	ParticipantB  uint      `json:"participant_b"`
	LastMessage   string    `json:"last_message"`
	LastSenderID  uint      `json:"last_sender_id"`
	LastTimestamp time.Time `json:"last_timestamp"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Message is append-only; Seen is the only mutable field and it moves
// false -> true exactly once.
type Message struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	ChatID    string    `json:"chat_id" gorm:"index"`
	SenderID  uint      `json:"sender_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Seen      bool      `json:"seen"`
}

// ChatID derives the channel id for a pair of users. The derivation is
// order-independent: ChatID(a, b) == ChatID(b, a). This is the single
// place ids are derived; presence keys reuse the same user id scheme.
func ChatID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// Participants returns the two user ids encoded in a chat id.
func (c *Chat) Participants() [2]uint {
	return [2]uint{c.ParticipantA, c.ParticipantB}
}

// HasParticipant reports whether uid is one of the two chat members.
func (c *Chat) HasParticipant(uid uint) bool {
	return uid == c.ParticipantA || uid == c.ParticipantB
}

// ApplySummary folds a message into the chat's summary. The summary
// never regresses: a message older than the current one is refused, so
// two racing sends always leave the newest message visible. Equal
// timestamps take the later write.
func (c *Chat) ApplySummary(m *Message) bool {
	if m.Timestamp.Before(c.LastTimestamp) {
		return false
	}
	c.LastMessage = m.Text
	c.LastSenderID = m.SenderID
	c.LastTimestamp = m.Timestamp
	return true
}

// MarkRead flips the seen flag, reporting whether anything changed.
// Idempotent; a sender never marks their own message, and seen never
// reverts to false.
func (m *Message) MarkRead(viewerID uint) bool {
	if m.SenderID == viewerID || m.Seen {
		return false
	}
	m.Seen = true
	return true
}

// GetOrCreateChat lazily creates the channel between two distinct users.
func GetOrCreateChat(tx *gorm.DB, a, b uint) (*Chat, error) {
	if a == b || a == 0 || b == 0 {
		return nil, fmt.Errorf("a chat needs two distinct participants")
	}
	id := ChatID(a, b)

	var chat Chat
	err := tx.First(&chat, "id = ?", id).Error
	if err == nil {
		return &chat, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	chat = Chat{ID: id, ParticipantA: lo, ParticipantB: hi}
	if err := tx.Create(&chat).Error; err != nil {
		// Lost the creation race. The deterministic id means the
		// winner inserted the exact row we wanted, so read it back.
		var existing Chat
		if tx.First(&existing, "id = ?", id).Error == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &chat, nil
}

// SendMessage appends a message and updates the parent chat's summary in
// one transaction. The summary update is guarded on last_timestamp so two
// racing sends can never leave an older message as the summary.
func SendMessage(tx *gorm.DB, chatID string, senderID uint, text string) (*Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("message text is required")
	}

	msg := &Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}

	err := tx.Transaction(func(tx *gorm.DB) error {
		var chat Chat
		if err := tx.First(&chat, "id = ?", chatID).Error; err != nil {
			return err
		}
		if !chat.HasParticipant(senderID) {
			return fmt.Errorf("sender is not a participant of this chat")
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if !chat.ApplySummary(msg) {
			return nil
		}
		// The WHERE clause restates the ApplySummary guard so a send
		// racing in another process cannot regress the summary either.
		return tx.Model(&Chat{}).
			Where("id = ? AND last_timestamp <= ?", chatID, msg.Timestamp).
			Updates(map[string]interface{}{
				"last_message":   chat.LastMessage,
				"last_sender_id": chat.LastSenderID,
				"last_timestamp": chat.LastTimestamp,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkSeen flips a message's seen flag. Idempotent: marking an already
// seen message is a no-op, and the sender's own messages are skipped.
func MarkSeen(tx *gorm.DB, chatID, messageID string, viewerID uint) error {
	return tx.Model(&Message{}).
		Where("id = ? AND chat_id = ? AND sender_id <> ? AND seen = ?", messageID, chatID, viewerID, false).
		Update("seen", true).Error
}

// MarkChatSeen marks every unseen message from the other participant,
// mirroring what a chat window does when it gains focus.
func MarkChatSeen(tx *gorm.DB, chatID string, viewerID uint) error {
	return tx.Model(&Message{}).
		Where("chat_id = ? AND sender_id <> ? AND seen = ?", chatID, viewerID, false).
		Update("seen", true).Error
}

// UnreadCount derives the badge value for one chat from a message
// snapshot: messages someone else sent that the viewer has not seen.
func UnreadCount(messages []Message, viewerID uint) int {
	count := 0
	for _, m := range messages {
		if m.SenderID != viewerID && !m.Seen {
			count++
		}
	}
	return count
}

// ChatMessages loads the full ordered history of a channel.
func ChatMessages(tx *gorm.DB, chatID string) ([]Message, error) {
	var msgs []Message
	err := tx.Where("chat_id = ?", chatID).Order("timestamp asc").Find(&msgs).Error
	return msgs, err
}

// UnreadTotal sums unread counts across every chat the viewer belongs to,
// for the global badge.
func UnreadTotal(tx *gorm.DB, viewerID uint) (int64, error) {
	var total int64
	err := tx.Model(&Message{}).
		Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("(chats.participant_a = ? OR chats.participant_b = ?)", viewerID, viewerID).
		Where("messages.sender_id <> ? AND messages.seen = ?", viewerID, false).
		Count(&total).Error
	return total, err
}
