package controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"geomarket/marketplace"
	"geomarket/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_ReachesUserSeller(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "rocky", "rocky@example.com")
	buyer := env.register(t, "ada", "ada@example.com")

	item, err := env.catalog.Publish(t.Context(), seller.User, marketplace.ListingInput{
		Name:        "Quartz Point",
		Price:       "$40",
		Description: "Clear quartz.",
	})
	require.NoError(t, err)

	path := "/api/listings/" + strconv.FormatInt(item.ID, 10) + "/messages"
	resp := env.do(t, http.MethodPost, path, buyer.Token, map[string]string{"body": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, body := range []string{"Is this still available?", "Can you ship to Canada?"} {
		resp = env.do(t, http.MethodPost, path, buyer.Token, map[string]string{"body": body})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/api/inbox", seller.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	conversations := decode[[]models.Conversation](t, resp)
	require.Len(t, conversations, 1)
	assert.Equal(t, buyer.User.ID, conversations[0].SenderID)
	assert.Equal(t, "ada", conversations[0].SenderUsername)
	require.Len(t, conversations[0].Messages, 2)
	assert.Equal(t, "Is this still available?", conversations[0].Messages[0].Body)
	assert.Equal(t, "Can you ship to Canada?", conversations[0].Messages[1].Body)

	resp = env.do(t, http.MethodGet, "/api/inbox", buyer.Token, nil)
	assert.Empty(t, decode[[]models.Conversation](t, resp))
}

func TestSendMessage_UnknownListing(t *testing.T) {
	env := newTestEnv(t)
	buyer := env.register(t, "ada", "ada@example.com")

	resp := env.do(t, http.MethodPost, "/api/listings/999/messages", buyer.Token, map[string]string{"body": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
