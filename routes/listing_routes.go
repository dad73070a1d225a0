package routes

import (
	"geomarket/controllers"

	"github.com/gofiber/fiber/v2"
)

func RegisterListingRoutes(app *fiber.App, ctl *controllers.ListingController, requireAuth fiber.Handler) {
	api := app.Group("/api")
	api.Get("/listings", ctl.GetListings)
	api.Get("/listings/:id", ctl.GetListingByID)
	api.Get("/sellers/:id/listings", ctl.GetSellerListings)
	api.Post("/listings", requireAuth, ctl.CreateListing)
	api.Post("/listings/draft", requireAuth, ctl.DraftListing)
}
