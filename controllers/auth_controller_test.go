package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionBody struct {
	Token string `json:"token"`
	User  struct {
		ID             string  `json:"id"`
		Username       string  `json:"username"`
		Email          string  `json:"email"`
		PasswordHash   string  `json:"passwordHash"`
		ProfilePicture *string `json:"profilePicture"`
	} `json:"user"`
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "rocky",
		"email":    "rocky@example.com",
		"password": "pebbles",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decode[sessionBody](t, resp)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "rocky", registered.User.Username)
	assert.Empty(t, registered.User.PasswordHash)

	resp = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "rocky@example.com",
		"password": "pebbles",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decode[sessionBody](t, resp).Token

	resp = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[map[string]any](t, resp)
	assert.Equal(t, "rocky@example.com", me["email"])

	resp = env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/auth/me", registered.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "rocky", "rocky@example.com")

	resp := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "other",
		"email":    "ROCKY@example.com",
		"password": "x",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "rocky", "rocky@example.com")

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "rocky@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", decode[map[string]string](t, resp)["error"])
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taken", "taken@example.com")
	session := env.register(t, "rocky", "rocky@example.com")

	resp := env.do(t, http.MethodPut, "/api/auth/me", session.Token, map[string]string{
		"username": "rocky2",
		"email":    "taken@example.com",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, http.MethodPut, "/api/auth/me", session.Token, map[string]any{
		"username":       "rocky2",
		"email":          "rocky2@example.com",
		"profilePicture": "data:image/png;base64,AAAA",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "rocky2", body["username"])
	assert.Equal(t, "data:image/png;base64,AAAA", body["profilePicture"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/auth/me", "/api/history", "/api/inbox"} {
		resp := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp := env.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid token", decode[map[string]string](t, resp)["error"])
}
