package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/homecare/homecare-app/controllers"
	"github.com/homecare/homecare-app/cron"
	"github.com/homecare/homecare-app/db"
	"github.com/homecare/homecare-app/presence"
	"github.com/homecare/homecare-app/realtime"
	"github.com/homecare/homecare-app/redis"
	"github.com/homecare/homecare-app/routes"
)

func main() {
	app := fiber.New()
	db.Init()
	if os.Getenv("RUN_MIGRATIONS") == "true" {
		db.Migrate()
	}
	redis.InitRedis()

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	store := presence.NewRedisStore(redis.Client)
	tracker := presence.NewTracker(store)
	go tracker.Run()

	hub := realtime.NewHub()
	controllers.Wire(tracker, hub)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("HomeCare API")
	})
	routes.SetupAuthRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupChatRoutes(app)
	routes.SetupDashboardRoutes(app)
	routes.SetupAdminRoutes(app)
	routes.SetupConsumerRoutes(app)
	routes.SetupRealtimeRoutes(app, hub, tracker)

	cron.StartCronJobs(tracker)

	if err := app.Listen(":8000"); err != nil {
		log.Fatal(err)
	}
}
