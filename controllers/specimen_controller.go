package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"

	"geomarket/gemini"
	"geomarket/history"
	"geomarket/marketplace"
	"geomarket/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Analyzer classifies and appraises specimen photos.
type Analyzer interface {
	Classify(ctx context.Context, image gemini.Image, userPrompt string) (*models.AnalysisResult, error)
	Appraise(ctx context.Context, image gemini.Image, analysis *models.AnalysisResult) (*models.AppraisalResult, error)
}

type SpecimenController struct {
	analyzer Analyzer
	history  *history.Service
	logger   *zap.Logger
}

// NewSpecimenController returns a controller whose handlers answer 503 when
// analyzer is nil.
func NewSpecimenController(analyzer Analyzer, hist *history.Service, logger *zap.Logger) *SpecimenController {
	return &SpecimenController{analyzer: analyzer, history: hist, logger: logger}
}

func readImage(c *fiber.Ctx) (gemini.Image, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return gemini.Image{}, gemini.ErrNoImage
	}
	f, err := fh.Open()
	if err != nil {
		return gemini.Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return gemini.Image{}, err
	}
	return gemini.Image{Data: data, MIMEType: fh.Header.Get(fiber.HeaderContentType)}, nil
}

func (ctl *SpecimenController) aiError(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, gemini.ErrNoImage), errors.Is(err, gemini.ErrNoAnalysis):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gemini.ErrBlocked):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gemini.ErrUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, gemini.ErrMalformedResponse):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": gemini.ErrMalformedResponse.Error()})
	default:
		ctl.logger.Error("AI request failed", zap.String("op", op), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to " + op + " specimen"})
	}
}

func (ctl *SpecimenController) Analyze(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	if ctl.analyzer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "AI analysis is not configured"})
	}

	image, err := readImage(c)
	if err != nil {
		return ctl.aiError(c, "analyze", err)
	}

	result, err := ctl.analyzer.Classify(c.UserContext(), image, c.FormValue("prompt"))
	if err != nil {
		return ctl.aiError(c, "analyze", err)
	}

	item := ctl.history.NewItem(image.Data, *result)
	if err := ctl.history.Add(c.UserContext(), user.ID, item); err != nil {
		ctl.logger.Error("Failed to save analysis history", zap.String("user", user.ID), zap.Error(err))
	}

	return c.JSON(fiber.Map{"analysis": result, "historyItemId": item.ID})
}

func (ctl *SpecimenController) Appraise(c *fiber.Ctx) error {
	if ctl.analyzer == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "AI analysis is not configured"})
	}

	image, err := readImage(c)
	if err != nil {
		return ctl.aiError(c, "appraise", err)
	}

	raw := c.FormValue("analysis")
	if raw == "" {
		return ctl.aiError(c, "appraise", gemini.ErrNoAnalysis)
	}
	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid analysis"})
	}

	appraisal, err := ctl.analyzer.Appraise(c.UserContext(), image, &analysis)
	if err != nil {
		return ctl.aiError(c, "appraise", err)
	}

	return c.JSON(fiber.Map{
		"appraisal": appraisal,
		"draft":     marketplace.DraftListing(analysis, *appraisal),
	})
}

func (ctl *SpecimenController) History(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	items, err := ctl.history.List(c.UserContext(), user.ID)
	if err != nil {
		ctl.logger.Error("Failed to load history", zap.String("user", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve history"})
	}
	return c.JSON(items)
}
