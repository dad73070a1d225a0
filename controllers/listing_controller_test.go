package controllers_test

import (
	"net/http"
	"testing"

	"geomarket/marketplace"
	"geomarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetListings(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/listings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]models.MarketplaceItem](t, resp), len(marketplace.SeedItems()))

	resp = env.do(t, http.MethodGet, "/api/listings?search=AMETHYST", "", nil)
	items := decode[[]models.MarketplaceItem](t, resp)
	require.Len(t, items, 1)
	assert.Equal(t, "Polished Amethyst Geode", items[0].Name)

	resp = env.do(t, http.MethodGet, "/api/listings?search=unobtainium", "", nil)
	assert.Empty(t, decode[[]models.MarketplaceItem](t, resp))
}

func TestGetListingByID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/listings/3", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Trilobite Fossil Plate", decode[models.MarketplaceItem](t, resp).Name)

	resp = env.do(t, http.MethodGet, "/api/listings/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/listings/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateListing(t *testing.T) {
	env := newTestEnv(t)
	session := env.register(t, "rocky", "rocky@example.com")

	resp := env.do(t, http.MethodPost, "/api/listings", "", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/listings", session.Token, map[string]string{
		"name":  "Quartz Point",
		"price": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/listings", session.Token, map[string]any{
		"name":         "Quartz Point",
		"price":        "120",
		"description":  "Clear quartz point.",
		"shippingCost": 9.5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[struct {
		Listing models.MarketplaceItem `json:"listing"`
	}](t, resp).Listing

	assert.Equal(t, int64(9), created.ID)
	assert.Equal(t, "$120", created.Price)
	assert.Equal(t, "user-"+session.User.ID, created.Seller.ID)
	assert.True(t, created.IsNew)

	resp = env.do(t, http.MethodGet, "/api/sellers/user-"+session.User.ID+"/listings", "", nil)
	mine := decode[[]models.MarketplaceItem](t, resp)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	resp = env.do(t, http.MethodGet, "/api/listings", "", nil)
	assert.Equal(t, created.ID, decode[[]models.MarketplaceItem](t, resp)[0].ID)
}

func TestDraftListing(t *testing.T) {
	env := newTestEnv(t)
	session := env.register(t, "rocky", "rocky@example.com")

	resp := env.do(t, http.MethodPost, "/api/listings/draft", session.Token, map[string]any{
		"analysis":  models.AnalysisResult{CommonName: "Amethyst", Description: "Purple quartz."},
		"appraisal": models.AppraisalResult{EstimatedValueRange: "$1,200 - $1,500 USD"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	draft := decode[marketplace.ListingInput](t, resp)
	assert.Equal(t, "Amethyst", draft.Name)
	assert.Equal(t, "$1200", draft.Price)
	assert.Equal(t, "Purple quartz.", draft.Description)

	resp = env.do(t, http.MethodPost, "/api/listings/draft", session.Token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
