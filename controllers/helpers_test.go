package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geomarket/auth"
	"geomarket/checkout"
	"geomarket/controllers"
	"geomarket/gemini"
	"geomarket/history"
	"geomarket/marketplace"
	"geomarket/messaging"
	"geomarket/middleware"
	"geomarket/models"
	"geomarket/payment"
	"geomarket/routes"
	"geomarket/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Classify(ctx context.Context, image gemini.Image, userPrompt string) (*models.AnalysisResult, error) {
	args := m.Called(ctx, image, userPrompt)
	result, _ := args.Get(0).(*models.AnalysisResult)
	return result, args.Error(1)
}

func (m *mockAnalyzer) Appraise(ctx context.Context, image gemini.Image, analysis *models.AnalysisResult) (*models.AppraisalResult, error) {
	args := m.Called(ctx, image, analysis)
	result, _ := args.Get(0).(*models.AppraisalResult)
	return result, args.Error(1)
}

type stubTokenizer struct{}

func (stubTokenizer) CreatePaymentMethod(ctx context.Context, card payment.CardInput, billingName string) (*payment.PaymentMethod, error) {
	if card.Token == "tok_chargeDeclined" {
		return nil, &payment.CardError{Code: "card_declined", Message: "Your card was declined."}
	}
	return &payment.PaymentMethod{ID: "pm_test"}, nil
}

type testEnv struct {
	app      *fiber.App
	store    storage.Store
	auth     *auth.Service
	catalog  *marketplace.Catalog
	messages *messaging.Service
	history  *history.Service
	analyzer *mockAnalyzer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, stubTokenizer{})
}

func newTestEnvWith(t *testing.T, tokenizer payment.Tokenizer) *testEnv {
	t.Helper()
	return newTestEnvWithDelays(t, tokenizer, checkout.Delays{Processing: 5 * time.Millisecond, Success: 5 * time.Millisecond})
}

func newTestEnvWithDelays(t *testing.T, tokenizer payment.Tokenizer, delays checkout.Delays) *testEnv {
	t.Helper()

	log := zap.NewNop()
	store := storage.NewMemoryStore()
	env := &testEnv{
		app:      fiber.New(fiber.Config{DisableStartupMessage: true}),
		store:    store,
		auth:     auth.NewService(store, log, []byte("test-secret"), time.Hour),
		catalog:  marketplace.NewCatalog(store, log),
		messages: messaging.NewService(store, log),
		history:  history.NewService(store, log),
		analyzer: new(mockAnalyzer),
	}

	requireAuth := middleware.JWTMiddleware(env.auth, log)

	routes.RegisterAuthRoutes(env.app, controllers.NewAuthController(env.auth, log), requireAuth)
	routes.RegisterSpecimenRoutes(env.app, controllers.NewSpecimenController(env.analyzer, env.history, log), requireAuth)
	routes.RegisterListingRoutes(env.app, controllers.NewListingController(env.catalog, log), requireAuth)
	routes.RegisterCheckoutRoutes(env.app, controllers.NewCheckoutController(env.catalog, env.messages, tokenizer, delays, log), requireAuth)
	routes.RegisterMessageRoutes(env.app, controllers.NewMessageController(env.catalog, env.messages, log), requireAuth)
	return env
}

// register creates an account and returns its session.
func (e *testEnv) register(t *testing.T, username, email string) *auth.Session {
	t.Helper()
	session, err := e.auth.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: "secret",
	})
	require.NoError(t, err)
	return session
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) upload(t *testing.T, path, token string, fields map[string]string, image []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "specimen.jpg")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
