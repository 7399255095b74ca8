package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/homecare/homecare-app/controllers"
	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/middleware"
	"github.com/homecare/homecare-app/models"
	"github.com/homecare/homecare-app/presence"
	"github.com/homecare/homecare-app/realtime"
)

// SetupRealtimeRoutes configures the websocket endpoint carrying the
// live chat and presence feeds. Browsers cannot set headers on a
// websocket handshake, so the JWT arrives as a query parameter.
func SetupRealtimeRoutes(app *fiber.App, hub *realtime.Hub, tracker *presence.Tracker) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		userID, role, ok := authenticateWS(conn.Query("token"))
		if !ok {
			_ = conn.WriteJSON(fiber.Map{"type": "error", "error": "unauthorized"})
			_ = conn.Close()
			return
		}

		// Connecting is going online. The disconnect effect is armed
		// inside MarkOnline before the flag is set; if that fails the
		// connection is refused rather than risking a stuck record.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		session, err := tracker.MarkOnline(ctx, userID, role)
		cancel()
		if err != nil {
			log.Printf("realtime: mark user %d online: %v", userID, err)
			_ = conn.WriteJSON(fiber.Map{"type": "error", "error": "presence unavailable"})
			_ = conn.Close()
			return
		}

		client := realtime.NewClient(conn, controllers.ChatAPI{}, hub, tracker, session, userID)
		client.Serve()
	}))
}

func authenticateWS(tokenString string) (uint, string, bool) {
	if tokenString == "" {
		return 0, "", false
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(middleware.Secret()), nil
	})
	if err != nil || !token.Valid {
		return 0, "", false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}
	id, ok := claims["id"].(float64)
	if !ok || id <= 0 {
		return 0, "", false
	}

	var user models.User
	if err := db.DB.Preload("Role").First(&user, uint(id)).Error; err != nil {
		return 0, "", false
	}
	if user.Blocked {
		return 0, "", false
	}
	return user.ID, user.RoleName(), true
}
