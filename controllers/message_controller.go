package controllers

import (
	"errors"

	"geomarket/marketplace"
	"geomarket/messaging"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type MessageController struct {
	catalog  *marketplace.Catalog
	messages *messaging.Service
	logger   *zap.Logger
}

func NewMessageController(catalog *marketplace.Catalog, messages *messaging.Service, logger *zap.Logger) *MessageController {
	return &MessageController{catalog: catalog, messages: messages, logger: logger}
}

type messageRequest struct {
	Body string `json:"body"`
}

// SendMessage delivers a note about a listing to its seller.
func (ctl *MessageController) SendMessage(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := listingID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	var req messageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}

	item, err := ctl.catalog.Get(c.UserContext(), id)
	if errors.Is(err, marketplace.ErrListingNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
	}
	if err != nil {
		ctl.logger.Error("Failed to load listing", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve listing"})
	}

	msg, err := ctl.messages.Compose(user, item, req.Body)
	if errors.Is(err, messaging.ErrEmptyBody) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message cannot be empty"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := ctl.messages.Send(c.UserContext(), messaging.RecipientID(item.Seller), msg); err != nil {
		ctl.logger.Error("Failed to send message", zap.String("sender", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to send message"})
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// Inbox returns the user's messages grouped by sender.
func (ctl *MessageController) Inbox(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	conversations, err := ctl.messages.ConversationsFor(c.UserContext(), user.ID)
	if err != nil {
		ctl.logger.Error("Failed to load inbox", zap.String("user", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve messages"})
	}
	return c.JSON(conversations)
}
