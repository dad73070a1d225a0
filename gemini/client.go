// Package gemini classifies and appraises specimen images with Google's
// Gemini models, constraining the model to a declared JSON schema and
// validating what comes back.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"geomarket/models"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.5-flash"

	jsonMIMEType = "application/json"
)

var (
	// ErrNoImage is returned when the caller passes no image bytes.
	ErrNoImage = errors.New("an image is required")

	// ErrNoAnalysis is returned when an appraisal has no prior classification.
	ErrNoAnalysis = errors.New("a classification result is required before appraisal")

	// ErrBlocked means the model returned no content, usually a safety block.
	ErrBlocked = errors.New("the AI request was blocked, likely due to safety settings or an invalid request")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("the AI service is temporarily unavailable")
)

// Image is an uploaded specimen photo.
type Image struct {
	Data     []byte
	MIMEType string
}

// ContentGenerator is the slice of the genai Models API the client needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures a Client.
type Config struct {
	APIKey string
	Model  string

	// FailureThreshold consecutive transport failures open the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open.
	OpenTimeout time.Duration
}

// Client performs classification and appraisal calls. No call is retried.
type Client struct {
	models  ContentGenerator
	model   string
	breaker *gobreaker.CircuitBreaker[*genai.GenerateContentResponse]
	logger  *zap.Logger
}

// New creates a Client backed by the Gemini API.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return NewWithGenerator(client.Models, cfg, logger), nil
}

// NewWithGenerator creates a Client on top of any ContentGenerator.
func NewWithGenerator(gen ContentGenerator, cfg Config, logger *zap.Logger) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	timeout := cfg.OpenTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:    "gemini",
		Timeout: timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Client{
		models:  gen,
		model:   model,
		breaker: gobreaker.NewCircuitBreaker[*genai.GenerateContentResponse](settings),
		logger:  logger,
	}
}

// Classify identifies the specimen in image. userPrompt is optional context.
func (c *Client) Classify(ctx context.Context, image Image, userPrompt string) (*models.AnalysisResult, error) {
	if len(image.Data) == 0 {
		return nil, ErrNoImage
	}

	text, err := c.generate(ctx, classificationPrompt(userPrompt), image, analysisSchema)
	if err != nil {
		return nil, err
	}

	result, err := DecodeAnalysis(text)
	if err != nil {
		c.logger.Error("Failed to parse classification response", zap.String("text", text), zap.Error(err))
		return nil, err
	}
	return result, nil
}

// Appraise values the specimen in image, using analysis as context.
func (c *Client) Appraise(ctx context.Context, image Image, analysis *models.AnalysisResult) (*models.AppraisalResult, error) {
	if len(image.Data) == 0 {
		return nil, ErrNoImage
	}
	if analysis == nil {
		return nil, ErrNoAnalysis
	}

	text, err := c.generate(ctx, appraisalPrompt(analysis), image, appraisalSchema)
	if err != nil {
		return nil, err
	}

	result, err := DecodeAppraisal(text)
	if err != nil {
		c.logger.Error("Failed to parse appraisal response", zap.String("text", text), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (c *Client) generate(ctx context.Context, prompt string, image Image, schema *genai.Schema) (string, error) {
	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image.Data, mimeType),
		}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		ResponseSchema:   schema,
	}

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return c.models.GenerateContent(ctx, c.model, contents, config)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrUnavailable
	}
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if resp == nil || strings.TrimSpace(resp.Text()) == "" {
		fields := []zap.Field{zap.String("model", c.model)}
		if resp != nil && resp.PromptFeedback != nil {
			fields = append(fields, zap.String("block_reason", string(resp.PromptFeedback.BlockReason)))
		}
		c.logger.Warn("AI response was blocked or empty", fields...)
		return "", ErrBlocked
	}

	c.logger.Debug("AI response received",
		zap.String("model", c.model),
		zap.Duration("elapsed", time.Since(start)))
	return resp.Text(), nil
}
