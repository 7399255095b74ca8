package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/homecare/homecare-app/controllers"
	"github.com/homecare/homecare-app/middleware"
)

// SetupChatRoutes configures the chat REST surface; the live stream is
// the websocket route in realtime.go.
func SetupChatRoutes(app *fiber.App) {
	chat := app.Group("/chats", middleware.Protected())
	chat.Get("/", controllers.ListChats)
	chat.Post("/open", controllers.OpenChat)
	chat.Get("/unread", controllers.GetUnreadBadge)
	chat.Get("/:id/messages", controllers.GetChatMessages)
	chat.Post("/:id/messages", controllers.PostChatMessage)
	chat.Patch("/:id/seen", controllers.MarkChatSeenHandler)
	chat.Patch("/:id/messages/:messageID/seen", controllers.MarkMessageSeen)
}
