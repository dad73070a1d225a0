package middleware

import (
	"context"
	"errors"
	"strings"

	"geomarket/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const sessionKey = "session"

// Authenticator resolves a bearer token to a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Session, error)
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// JWTMiddleware rejects requests without a live session and stores the
// session in c.Locals for handlers.
func JWTMiddleware(authn Authenticator, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token is required in Bearer format",
			})
		}

		session, err := authn.Authenticate(c.UserContext(), token)
		switch {
		case errors.Is(err, auth.ErrSessionExpired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Session has expired"})
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
		case err != nil:
			logger.Error("Failed to authenticate request", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not verify session"})
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// CurrentSession returns the session stored by the middleware, or nil.
func CurrentSession(c *fiber.Ctx) *auth.Session {
	session, _ := c.Locals(sessionKey).(*auth.Session)
	return session
}
