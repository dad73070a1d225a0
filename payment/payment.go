// Package payment turns a card field token into an opaque payment method id
// through Stripe. No charge is ever captured.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL  = "https://api.stripe.com"
	defaultTimeout = 15 * time.Second
)

var (
	// ErrNotReady is returned when no gateway is configured or the card
	// field has not been mounted.
	ErrNotReady = errors.New("payment gateway is not ready")

	// ErrMissingCard is returned when the card token is empty.
	ErrMissingCard = errors.New("card details are required")
)

// CardInput is what the client-side card widget produced.
type CardInput struct {
	Token string `json:"token"`
}

// PaymentMethod is the gateway's reference to a tokenized card.
type PaymentMethod struct {
	ID    string `json:"id"`
	Brand string `json:"brand,omitempty"`
	Last4 string `json:"last4,omitempty"`
}

// CardError is a failure reported by the gateway, e.g. a declined card.
type CardError struct {
	Code    string
	Message string
}

func (e *CardError) Error() string {
	if e.Message == "" {
		return "payment failed: " + e.Code
	}
	return e.Message
}

// Tokenizer creates payment methods from card input.
type Tokenizer interface {
	CreatePaymentMethod(ctx context.Context, card CardInput, billingName string) (*PaymentMethod, error)
}

// StripeTokenizer talks to the Stripe payment_methods endpoint.
type StripeTokenizer struct {
	secretKey string
	apiURL    string
	logger    *zap.Logger
}

// NewStripeTokenizer returns nil when secretKey is empty, which callers
// treat as "gateway not configured".
func NewStripeTokenizer(secretKey, apiURL string, logger *zap.Logger) *StripeTokenizer {
	if strings.TrimSpace(secretKey) == "" {
		return nil
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &StripeTokenizer{
		secretKey: secretKey,
		apiURL:    strings.TrimRight(apiURL, "/"),
		logger:    logger,
	}
}

type stripeResponse struct {
	ID   string `json:"id"`
	Card *struct {
		Brand string `json:"brand"`
		Last4 string `json:"last4"`
	} `json:"card"`
	Error *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *StripeTokenizer) CreatePaymentMethod(ctx context.Context, card CardInput, billingName string) (*PaymentMethod, error) {
	if s == nil {
		return nil, ErrNotReady
	}
	if strings.TrimSpace(card.Token) == "" {
		return nil, ErrMissingCard
	}

	timeout := defaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("type", "card")
	args.Set("card[token]", card.Token)
	if name := strings.TrimSpace(billingName); name != "" {
		args.Set("billing_details[name]", name)
	}

	agent := fiber.Post(s.apiURL + "/v1/payment_methods")
	agent.BasicAuth(s.secretKey, "")
	agent.Timeout(timeout)
	agent.Form(args)

	var resp stripeResponse
	status, _, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		s.logger.Error("Payment gateway request failed", zap.Errors("errors", errs))
		return nil, fmt.Errorf("payment gateway request: %w", errors.Join(errs...))
	}

	if resp.Error != nil {
		s.logger.Info("Payment method rejected",
			zap.Int("status", status),
			zap.String("type", resp.Error.Type),
			zap.String("code", resp.Error.Code))
		return nil, &CardError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	if status >= fiber.StatusBadRequest || resp.ID == "" {
		return nil, &CardError{Code: "unexpected_response", Message: fmt.Sprintf("payment gateway returned status %d", status)}
	}

	pm := &PaymentMethod{ID: resp.ID}
	if resp.Card != nil {
		pm.Brand = resp.Card.Brand
		pm.Last4 = resp.Card.Last4
	}
	return pm, nil
}
