package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"geomarket/checkout"
	"geomarket/marketplace"
	"geomarket/messaging"
	"geomarket/models"
	"geomarket/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const fulfillmentTimeout = 10 * time.Second

type CheckoutController struct {
	catalog  *marketplace.Catalog
	messages *messaging.Service
	registry *checkout.Registry
	logger   *zap.Logger

	// reserved holds listings with a confirmed order awaiting fulfillment.
	mu       sync.Mutex
	reserved map[int64]struct{}
}

// NewCheckoutController wires a checkout registry whose completed orders
// take the listing off the market and notify the buyer. tokenizer may be nil.
func NewCheckoutController(catalog *marketplace.Catalog, messages *messaging.Service, tokenizer payment.Tokenizer, delays checkout.Delays, logger *zap.Logger) *CheckoutController {
	ctl := &CheckoutController{
		catalog:  catalog,
		messages: messages,
		logger:   logger,
		reserved: make(map[int64]struct{}),
	}
	ctl.registry = checkout.NewRegistry(tokenizer, delays, ctl.fulfill, logger)
	return ctl
}

func (ctl *CheckoutController) reserve(itemID int64) bool {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if _, taken := ctl.reserved[itemID]; taken {
		return false
	}
	ctl.reserved[itemID] = struct{}{}
	return true
}

func (ctl *CheckoutController) release(itemID int64) {
	ctl.mu.Lock()
	delete(ctl.reserved, itemID)
	ctl.mu.Unlock()
}

// fulfill runs off the request path once a wizard completes. A listing
// that is no longer active gets no confirmation.
func (ctl *CheckoutController) fulfill(buyer models.User, item models.MarketplaceItem) {
	defer ctl.release(item.ID)

	ctx, cancel := context.WithTimeout(context.Background(), fulfillmentTimeout)
	defer cancel()

	if err := ctl.catalog.Remove(ctx, item.ID); err != nil {
		ctl.logger.Warn("Purchased listing is no longer active, skipping confirmation",
			zap.Int64("item", item.ID),
			zap.String("buyer", buyer.ID),
			zap.Error(err))
		return
	}

	confirmation := models.Message{
		ID:             uuid.NewString(),
		SenderID:       item.Seller.ID,
		SenderUsername: item.Seller.Name,
		RecipientID:    buyer.ID,
		ItemID:         item.ID,
		ItemName:       item.Name,
		Body:           fmt.Sprintf("Thank you for your purchase! Your order for %s (%s) has been placed.", item.Name, item.Price),
		Timestamp:      time.Now().UTC(),
	}
	if err := ctl.messages.Send(ctx, buyer.ID, confirmation); err != nil {
		ctl.logger.Error("Failed to record purchase confirmation", zap.String("buyer", buyer.ID), zap.Error(err))
		return
	}

	ctl.logger.Info("Purchase completed",
		zap.String("buyer", buyer.ID),
		zap.Int64("item", item.ID),
		zap.String("seller", item.Seller.ID))
}

func (ctl *CheckoutController) checkoutError(c *fiber.Ctx, err error) error {
	var cardErr *payment.CardError
	switch {
	case errors.As(err, &cardErr):
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"error": cardErr.Error(), "code": cardErr.Code})
	case errors.Is(err, checkout.ErrCheckoutNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Checkout not found"})
	case errors.Is(err, checkout.ErrIncompleteShipping), errors.Is(err, payment.ErrMissingCard):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": checkout.ErrorMessage(err)})
	case errors.Is(err, payment.ErrNotReady):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": checkout.ErrorMessage(err)})
	case errors.Is(err, checkout.ErrCancelled):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, checkout.ErrInvalidStep), errors.Is(err, checkout.ErrBusy), errors.Is(err, checkout.ErrCloseDisabled):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidPrice):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		ctl.logger.Error("Checkout failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Payment failed"})
	}
}

func (ctl *CheckoutController) wizard(c *fiber.Ctx) (*checkout.Wizard, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, checkout.ErrCheckoutNotFound
	}
	return ctl.registry.Get(c.Params("id"), user.ID)
}

// StartCheckout opens a wizard on a listing.
func (ctl *CheckoutController) StartCheckout(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := listingID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	item, err := ctl.catalog.Get(c.UserContext(), id)
	if errors.Is(err, marketplace.ErrListingNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
	}
	if err != nil {
		ctl.logger.Error("Failed to load listing", zap.Int64("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve listing"})
	}
	if item.Seller.ID == marketplace.SellerFor(user).ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot buy your own listing"})
	}

	checkoutID, w := ctl.registry.Start(user, item)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": checkoutID, "state": w.Snapshot()})
}

func (ctl *CheckoutController) GetCheckout(c *fiber.Ctx) error {
	w, err := ctl.wizard(c)
	if err != nil {
		return ctl.checkoutError(c, err)
	}
	return c.JSON(w.Snapshot())
}

func (ctl *CheckoutController) SubmitShipping(c *fiber.Ctx) error {
	w, err := ctl.wizard(c)
	if err != nil {
		return ctl.checkoutError(c, err)
	}

	var info checkout.ShippingInfo
	if err := c.BodyParser(&info); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := w.SubmitShipping(info); err != nil {
		return ctl.checkoutError(c, err)
	}
	return c.JSON(w.Snapshot())
}

func (ctl *CheckoutController) SubmitPayment(c *fiber.Ctx) error {
	w, err := ctl.wizard(c)
	if err != nil {
		return ctl.checkoutError(c, err)
	}

	var card payment.CardInput
	if err := c.BodyParser(&card); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}
	if err := w.SubmitPayment(c.UserContext(), card); err != nil {
		return ctl.checkoutError(c, err)
	}
	return c.JSON(w.Snapshot())
}

func (ctl *CheckoutController) Back(c *fiber.Ctx) error {
	w, err := ctl.wizard(c)
	if err != nil {
		return ctl.checkoutError(c, err)
	}
	if err := w.Back(); err != nil {
		return ctl.checkoutError(c, err)
	}
	return c.JSON(w.Snapshot())
}

// Confirm places the order if the listing is still for sale and nobody else
// has a confirmed order on it.
func (ctl *CheckoutController) Confirm(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	w, err := ctl.wizard(c)
	if err != nil {
		return ctl.checkoutError(c, err)
	}

	item := w.Item()
	if _, err := ctl.catalog.Get(c.UserContext(), item.ID); err != nil {
		if !errors.Is(err, marketplace.ErrListingNotFound) {
			ctl.logger.Error("Failed to load listing", zap.Int64("id", item.ID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve listing"})
		}
		if err := ctl.registry.Cancel(c.Params("id"), user.ID); err != nil {
			ctl.logger.Warn("Failed to close checkout for sold listing", zap.Error(err))
		}
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "This item has already been sold"})
	}

	if !ctl.reserve(item.ID) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This item is already being purchased"})
	}
	if err := w.Confirm(); err != nil {
		ctl.release(item.ID)
		return ctl.checkoutError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(w.Snapshot())
}

func (ctl *CheckoutController) CancelCheckout(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	if err := ctl.registry.Cancel(c.Params("id"), user.ID); err != nil {
		return ctl.checkoutError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
