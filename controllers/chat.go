package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/utils"
)

var (
	errChatNotFound   = errors.New("chat not found")
	errNotParticipant = errors.New("you are not a participant of this chat")
)

// chatErrorStatus maps chat access errors onto the response taxonomy:
// a missing chat is 404, everything else on this path is forbidden.
func chatErrorStatus(err error) int {
	if errors.Is(err, errChatNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusForbidden
}

// ChatAPI is the chat mutation/read surface, shared by the REST handlers
// and the websocket layer (it satisfies realtime.ChatService).
type ChatAPI struct{}

// SendMessage validates the sender, appends the message and publishes it
// to live subscribers. Blocked users can read history but not send.
func (ChatAPI) SendMessage(ctx context.Context, chatID string, senderID uint, text string) (*models.Message, error) {
	var sender models.User
	if err := db.DB.WithContext(ctx).First(&sender, senderID).Error; err != nil {
		return nil, fmt.Errorf("sender not found")
	}
	if sender.Blocked {
		return nil, fmt.Errorf("account is blocked")
	}

	msg, err := models.SendMessage(db.DB.WithContext(ctx), chatID, senderID, text)
	if err != nil {
		return nil, err
	}
	if Hub != nil {
		Hub.Publish(*msg)
	}
	return msg, nil
}

// History returns the full ordered message history, participants only.
func (ChatAPI) History(ctx context.Context, chatID string, viewerID uint) ([]models.Message, error) {
	chat, err := loadChatFor(ctx, chatID, viewerID)
	if err != nil {
		return nil, err
	}
	return models.ChatMessages(db.DB.WithContext(ctx), chat.ID)
}

// MarkChatSeen marks everything the other side sent as seen.
func (ChatAPI) MarkChatSeen(ctx context.Context, chatID string, viewerID uint) error {
	chat, err := loadChatFor(ctx, chatID, viewerID)
	if err != nil {
		return err
	}
	return models.MarkChatSeen(db.DB.WithContext(ctx), chat.ID, viewerID)
}

func loadChatFor(ctx context.Context, chatID string, viewerID uint) (*models.Chat, error) {
	var chat models.Chat
	if err := db.DB.WithContext(ctx).First(&chat, "id = ?", chatID).Error; err != nil {
		return nil, errChatNotFound
	}
	if !chat.HasParticipant(viewerID) {
		return nil, errNotParticipant
	}
	return &chat, nil
}

// OpenChat resolves (or lazily creates) the channel with another user.
func OpenChat(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	type OpenInput struct {
		UserID uint `json:"user_id"`
	}
	input := new(OpenInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	var other models.User
	if err := db.DB.First(&other, input.UserID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	chat, err := models.GetOrCreateChat(db.DB, userID, other.ID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(chat)
}

// ListChats returns the caller's channels newest-first with per-chat
// unread counts.
func ListChats(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	var chats []models.Chat
	if err := db.DB.
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_timestamp desc").
		Find(&chats).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch chats",
			Error:   err.Error(),
		})
	}

	type chatView struct {
		models.Chat
		Unread int64 `json:"unread"`
	}
	views := make([]chatView, 0, len(chats))
	for _, chat := range chats {
		var unread int64
		db.DB.Model(&models.Message{}).
			Where("chat_id = ? AND sender_id <> ? AND seen = ?", chat.ID, userID, false).
			Count(&unread)
		views = append(views, chatView{Chat: chat, Unread: unread})
	}
	return c.JSON(views)
}

// GetChatMessages returns the ordered history of one channel.
func GetChatMessages(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	msgs, err := ChatAPI{}.History(c.Context(), c.Params("id"), userID)
	if err != nil {
		return c.Status(chatErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(msgs)
}

// PostChatMessage is the REST send path; delivery to live subscribers
// happens through the hub either way.
func PostChatMessage(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	type SendInput struct {
		Text string `json:"text"`
	}
	input := new(SendInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if _, err := loadChatFor(c.Context(), c.Params("id"), userID); err != nil {
		return c.Status(chatErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	msg, err := ChatAPI{}.SendMessage(c.Context(), c.Params("id"), userID, input.Text)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// MarkMessageSeen flips one message's seen flag. Idempotent.
func MarkMessageSeen(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	if _, err := loadChatFor(c.Context(), c.Params("id"), userID); err != nil {
		return c.Status(chatErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := models.MarkSeen(db.DB, c.Params("id"), c.Params("messageID"), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark message seen",
		})
	}
	return c.JSON(fiber.Map{"message": "ok"})
}

// MarkChatSeenHandler marks the whole chat read, the way a chat window
// does when it gains focus.
func MarkChatSeenHandler(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	if err := (ChatAPI{}).MarkChatSeen(c.Context(), c.Params("id"), userID); err != nil {
		return c.Status(chatErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "ok"})
}

// GetUnreadBadge returns the summed unread count across all the caller's
// chats, for the global notification badge.
func GetUnreadBadge(c *fiber.Ctx) error {
	userID, _, ok := actor(c)
	if !ok {
		return nil
	}

	total, err := models.UnreadTotal(db.DB, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to compute unread count",
			Error:   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"unread": total})
}
