package routes

import (
	"geomarket/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterAuthRoutes(app *fiber.App, ctl *controllers.AuthController, requireAuth fiber.Handler) {
	api := app.Group("/api/auth")
	api.Post("/register", ctl.Register)
	api.Post("/login", ctl.Login)
	api.Post("/logout", requireAuth, ctl.Logout)
	api.Get("/me", requireAuth, ctl.Me)
	api.Put("/me", requireAuth, ctl.UpdateMe)
}
