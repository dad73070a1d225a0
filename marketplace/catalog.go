// Package marketplace manages the set of active listings.
package marketplace

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"geomarket/models"
	"geomarket/storage"

	"go.uber.org/zap"
)

var (
	// ErrListingNotFound is returned when no active listing has the id.
	ErrListingNotFound = errors.New("listing not found")

	// ErrIncompleteListing is returned when a required listing field is blank.
	ErrIncompleteListing = errors.New("all fields must be filled out")
)

// defaultSuggestedPrice is used when an appraisal range carries no number.
const defaultSuggestedPrice = "100"

var firstNumber = regexp.MustCompile(`\d+`)

type catalog struct {
	NextID int64                    `json:"nextId"`
	Items  []models.MarketplaceItem `json:"items"`
}

// ListingInput is the seller-supplied part of a new listing.
type ListingInput struct {
	Name         string   `json:"name"`
	Price        string   `json:"price"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"imageUrl"`
	ShippingCost *float64 `json:"shippingCost,omitempty"`
}

// Catalog reads and mutates the persisted listing set.
type Catalog struct {
	store  storage.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// NewCatalog creates a catalog on top of store. The starter listings are
// written on first use.
func NewCatalog(store storage.Store, logger *zap.Logger) *Catalog {
	return &Catalog{store: store, logger: logger}
}

func (c *Catalog) load(ctx context.Context) (catalog, error) {
	cat, err := storage.LoadJSON[catalog](ctx, c.store, storage.ListingsKey, c.logger)
	if err != nil {
		return catalog{}, err
	}
	if cat.NextID == 0 {
		cat = seedCatalog()
	}
	return cat, nil
}

func seedCatalog() catalog {
	items := SeedItems()
	return catalog{NextID: int64(len(items)) + 1, Items: items}
}

// Seed replaces the catalogue with the starter listings.
func (c *Catalog) Seed(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return storage.SaveJSON(ctx, c.store, storage.ListingsKey, seedCatalog())
}

// List returns active listings whose name or description contains search,
// case-insensitively. An empty search returns everything.
func (c *Catalog) List(ctx context.Context, search string) ([]models.MarketplaceItem, error) {
	cat, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return cat.Items, nil
	}

	filtered := []models.MarketplaceItem{}
	for _, item := range cat.Items {
		if strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Description), term) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// BySeller returns the active listings of one seller.
func (c *Catalog) BySeller(ctx context.Context, sellerID string) ([]models.MarketplaceItem, error) {
	cat, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	items := []models.MarketplaceItem{}
	for _, item := range cat.Items {
		if item.Seller.ID == sellerID {
			items = append(items, item)
		}
	}
	return items, nil
}

// Get returns the active listing with id.
func (c *Catalog) Get(ctx context.Context, id int64) (models.MarketplaceItem, error) {
	cat, err := c.load(ctx)
	if err != nil {
		return models.MarketplaceItem{}, err
	}
	for _, item := range cat.Items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.MarketplaceItem{}, ErrListingNotFound
}

// SellerFor derives the seller identity of a registered user.
func SellerFor(user models.User) models.Seller {
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", user.ID)
	if user.ProfilePicture != nil && *user.ProfilePicture != "" {
		avatar = *user.ProfilePicture
	}
	return models.Seller{
		ID:        "user-" + user.ID,
		Name:      user.Username,
		AvatarURL: avatar,
	}
}

// Publish creates a listing owned by user and puts it at the head of the
// catalogue.
func (c *Catalog) Publish(ctx context.Context, user models.User, input ListingInput) (models.MarketplaceItem, error) {
	name := strings.TrimSpace(input.Name)
	price := strings.TrimSpace(input.Price)
	description := strings.TrimSpace(input.Description)
	if name == "" || price == "" || description == "" {
		return models.MarketplaceItem{}, ErrIncompleteListing
	}
	if _, err := models.ParsePrice(price); err != nil {
		return models.MarketplaceItem{}, err
	}
	if input.ShippingCost != nil && *input.ShippingCost < 0 {
		return models.MarketplaceItem{}, fmt.Errorf("%w: shipping cost is negative", models.ErrInvalidPrice)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cat, err := c.load(ctx)
	if err != nil {
		return models.MarketplaceItem{}, err
	}

	item := models.MarketplaceItem{
		ID:           cat.NextID,
		Name:         name,
		Price:        "$" + strings.TrimSpace(strings.TrimPrefix(price, "$")),
		ImageURL:     input.ImageURL,
		Description:  description,
		Seller:       SellerFor(user),
		IsNew:        true,
		ShippingCost: input.ShippingCost,
	}
	cat.NextID++
	cat.Items = append([]models.MarketplaceItem{item}, cat.Items...)

	if err := storage.SaveJSON(ctx, c.store, storage.ListingsKey, cat); err != nil {
		return models.MarketplaceItem{}, fmt.Errorf("publish listing: %w", err)
	}
	c.logger.Info("Listing published",
		zap.Int64("id", item.ID),
		zap.String("seller", item.Seller.ID),
		zap.String("price", item.Price))
	return item, nil
}

// Remove takes a listing out of the active set. There is no archive.
func (c *Catalog) Remove(ctx context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cat, err := c.load(ctx)
	if err != nil {
		return err
	}

	kept := cat.Items[:0:0]
	for _, item := range cat.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cat.Items) {
		return ErrListingNotFound
	}
	cat.Items = kept

	if err := storage.SaveJSON(ctx, c.store, storage.ListingsKey, cat); err != nil {
		return fmt.Errorf("remove listing: %w", err)
	}
	return nil
}

// SuggestPrice picks the first whole number in an appraisal range such as
// "$150 - $250 USD". Thousands separators are ignored.
func SuggestPrice(valueRange string) string {
	if match := firstNumber.FindString(strings.ReplaceAll(valueRange, ",", "")); match != "" {
		return match
	}
	return defaultSuggestedPrice
}

// DraftListing pre-fills a listing from a classification and its appraisal.
func DraftListing(analysis models.AnalysisResult, appraisal models.AppraisalResult) ListingInput {
	return ListingInput{
		Name:        analysis.CommonName,
		Price:       "$" + SuggestPrice(appraisal.EstimatedValueRange),
		Description: analysis.Description,
	}
}
