package controllers

import (
	"geomarket/middleware"
	"geomarket/models"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the authenticated user. Routes using it sit behind
// middleware.JWTMiddleware.
func currentUser(c *fiber.Ctx) (models.User, bool) {
	session := middleware.CurrentSession(c)
	if session == nil {
		return models.User{}, false
	}
	return session.User, true
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Login required"})
}

func listingID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}
