package controllers

import (
	"errors"

	"geomarket/marketplace"
	"geomarket/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ListingController struct {
	catalog *marketplace.Catalog
	logger  *zap.Logger
}

func NewListingController(catalog *marketplace.Catalog, logger *zap.Logger) *ListingController {
	return &ListingController{catalog: catalog, logger: logger}
}

// GetListings returns active listings, optionally filtered by ?search=.
func (ctl *ListingController) GetListings(c *fiber.Ctx) error {
	items, err := ctl.catalog.List(c.UserContext(), c.Query("search"))
	if err != nil {
		ctl.logger.Error("Failed to list listings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve listings"})
	}
	return c.JSON(items)
}

func (ctl *ListingController) GetListingByID(c *fiber.Ctx) error {
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
	return c.JSON(item)
}

func (ctl *ListingController) GetSellerListings(c *fiber.Ctx) error {
	items, err := ctl.catalog.BySeller(c.UserContext(), c.Params("id"))
	if err != nil {
		ctl.logger.Error("Failed to list seller listings", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve listings"})
	}
	return c.JSON(items)
}

func (ctl *ListingController) CreateListing(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var input marketplace.ListingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	item, err := ctl.catalog.Publish(c.UserContext(), user, input)
	switch {
	case errors.Is(err, marketplace.ErrIncompleteListing), errors.Is(err, models.ErrInvalidPrice):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		ctl.logger.Error("Failed to publish listing", zap.String("user", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create listing"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Listing created", "listing": item})
}

type draftRequest struct {
	Analysis  *models.AnalysisResult  `json:"analysis"`
	Appraisal *models.AppraisalResult `json:"appraisal"`
}

// DraftListing pre-fills the listing form from an analysis and appraisal.
func (ctl *ListingController) DraftListing(c *fiber.Ctx) error {
	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if req.Analysis == nil || req.Appraisal == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Analysis and appraisal are required"})
	}
	return c.JSON(marketplace.DraftListing(*req.Analysis, *req.Appraisal))
}
