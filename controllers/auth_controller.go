package controllers

import (
	"errors"
	"time"

	"geomarket/auth"
	"geomarket/middleware"
	"geomarket/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthController struct {
	auth   *auth.Service
	logger *zap.Logger
}

func NewAuthController(svc *auth.Service, logger *zap.Logger) *AuthController {
	return &AuthController{auth: svc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string              `json:"token"`
	ExpiresAt time.Time           `json:"expiresAt"`
	User      models.UserResponse `json:"user"`
}

func newSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{Token: s.Token, ExpiresAt: s.ExpiresAt, User: s.User.Response()}
}

func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}

	session, err := ctl.auth.Register(c.UserContext(), input)
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		ctl.logger.Error("Failed to register user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(newSessionResponse(session))
}

func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var creds loginRequest
	if err := c.BodyParser(&creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request format"})
	}

	session, err := ctl.auth.Login(c.UserContext(), creds.Email, creds.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	}
	if err != nil {
		ctl.logger.Error("Failed to log in", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate token"})
	}

	return c.JSON(newSessionResponse(session))
}

func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if session == nil {
		return unauthorized(c)
	}
	if err := ctl.auth.Logout(c.UserContext(), session.ID); err != nil {
		ctl.logger.Error("Failed to log out", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not end session"})
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}

func (ctl *AuthController) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(user.Response())
}

func (ctl *AuthController) UpdateMe(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var input auth.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}

	updated, err := ctl.auth.Update(c.UserContext(), user.ID, input)
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and email are required"})
	case errors.Is(err, auth.ErrEmailInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case err != nil:
		ctl.logger.Error("Failed to update profile", zap.String("user", user.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(updated.Response())
}
