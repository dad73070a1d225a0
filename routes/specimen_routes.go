package routes

import (
	"geomarket/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterSpecimenRoutes(app *fiber.App, ctl *controllers.SpecimenController, requireAuth fiber.Handler) {
	api := app.Group("/api")
	api.Post("/specimens/analyze", requireAuth, ctl.Analyze)
	api.Post("/specimens/appraise", requireAuth, ctl.Appraise)
	api.Get("/history", requireAuth, ctl.History)
}
