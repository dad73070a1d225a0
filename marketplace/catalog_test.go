package marketplace

import (
	"context"
	"testing"

	"geomarket/models"
	"geomarket/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCatalog() *Catalog {
	return NewCatalog(storage.NewMemoryStore(), zap.NewNop())
}

func seller() models.User {
	return models.User{ID: "u1", Username: "rocky"}
}

func TestList_SeedsOnFirstUse(t *testing.T) {
	items, err := newTestCatalog().List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, items, 8)
	assert.Equal(t, "Polished Amethyst Geode", items[0].Name)
}

func TestList_SearchesNameAndDescription(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog()

	items, err := cat.List(ctx, "OPAL")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].ID)

	// only in the description
	items, err = cat.List(ctx, "colombia")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Raw Emerald Cluster", items[0].Name)

	items, err = cat.List(ctx, "meteorite")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBySeller(t *testing.T) {
	items, err := newTestCatalog().BySeller(context.Background(), "seller4")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, "AncientGemsCo", item.Seller.Name)
	}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog()

	item, err := cat.Publish(ctx, seller(), ListingInput{
		Name:        "Septarian Nodule",
		Price:       "120",
		Description: "Calcite-filled concretion",
		ImageURL:    "data:image/png;base64,AAAA",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), item.ID)
	assert.Equal(t, "$120", item.Price)
	assert.True(t, item.IsNew)
	assert.Equal(t, "user-u1", item.Seller.ID)
	assert.Equal(t, "rocky", item.Seller.Name)
	assert.Equal(t, "https://i.pravatar.cc/150?u=u1", item.Seller.AvatarURL)

	items, err := cat.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 9)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestPublish_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog()
	input := ListingInput{Name: "Geode", Price: "$40", Description: "Hollow"}

	first, err := cat.Publish(ctx, seller(), input)
	require.NoError(t, err)
	require.NoError(t, cat.Remove(ctx, first.ID))

	second, err := cat.Publish(ctx, seller(), input)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)
}

func TestPublish_Validation(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog()

	_, err := cat.Publish(ctx, seller(), ListingInput{Name: "Geode", Price: " ", Description: "x"})
	assert.ErrorIs(t, err, ErrIncompleteListing)

	_, err = cat.Publish(ctx, seller(), ListingInput{Name: "Geode", Price: "cheap", Description: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidPrice)

	negative := -1.0
	_, err = cat.Publish(ctx, seller(), ListingInput{Name: "Geode", Price: "5", Description: "x", ShippingCost: &negative})
	assert.ErrorIs(t, err, models.ErrInvalidPrice)
}

func TestPublish_UsesProfilePictureAsAvatar(t *testing.T) {
	pic := "data:image/png;base64,BBBB"
	user := seller()
	user.ProfilePicture = &pic

	assert.Equal(t, pic, SellerFor(user).AvatarURL)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog()

	require.NoError(t, cat.Remove(ctx, 3))

	_, err := cat.Get(ctx, 3)
	assert.ErrorIs(t, err, ErrListingNotFound)
	assert.ErrorIs(t, cat.Remove(ctx, 3), ErrListingNotFound)

	items, err := cat.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, items, 7)
}

func TestSeed_Restores(t *testing.T) {
	ctx := context.Background()
	cat := newTestCatalog()

	require.NoError(t, cat.Remove(ctx, 1))
	require.NoError(t, cat.Seed(ctx))

	item, err := cat.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "$250", item.Price)
}

func TestSuggestPrice(t *testing.T) {
	assert.Equal(t, "150", SuggestPrice("$150 - $250 USD"))
	assert.Equal(t, "1200", SuggestPrice("$1,200 - $1,500"))
	assert.Equal(t, "100", SuggestPrice("priceless"))
}

func TestDraftListing(t *testing.T) {
	draft := DraftListing(
		models.AnalysisResult{CommonName: "Amethyst", Description: "Purple quartz"},
		models.AppraisalResult{EstimatedValueRange: "$450 - $600 USD"},
	)
	assert.Equal(t, "Amethyst", draft.Name)
	assert.Equal(t, "$450", draft.Price)
	assert.Equal(t, "Purple quartz", draft.Description)
}
