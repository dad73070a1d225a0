package routes

import (
	"geomarket/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterCheckoutRoutes(app *fiber.App, ctl *controllers.CheckoutController, requireAuth fiber.Handler) {
	app.Post("/api/listings/:id/checkout", requireAuth, ctl.StartCheckout)

	checkouts := app.Group("/api/checkouts", requireAuth)
	checkouts.Get("/:id", ctl.GetCheckout)
	checkouts.Post("/:id/shipping", ctl.SubmitShipping)
	checkouts.Post("/:id/payment", ctl.SubmitPayment)
	checkouts.Post("/:id/back", ctl.Back)
	checkouts.Post("/:id/confirm", ctl.Confirm)
	checkouts.Delete("/:id", ctl.CancelCheckout)
}
