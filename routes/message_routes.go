package routes

import (
	"geomarket/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterMessageRoutes(app *fiber.App, ctl *controllers.MessageController, requireAuth fiber.Handler) {
	app.Post("/api/listings/:id/messages", requireAuth, ctl.SendMessage)
	app.Get("/api/inbox", requireAuth, ctl.Inbox)
}
