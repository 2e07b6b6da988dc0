package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"leantime-watchers/internal/domain"
	"leantime-watchers/internal/pkg/events"
	"leantime-watchers/internal/service/auth"
)

const SessionContextKey = "session"

// AuthRequired validates the bearer token, builds the session, runs it
// through the session built filter and stores it on the request.
func AuthRequired(authService auth.Service, bus *events.Bus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid authorization header format",
			})
		}

		claims, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired token",
			})
		}

		session, err := authService.BuildSession(c.UserContext(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "User not found",
			})
		}

		filtered := bus.FilterSession(c.UserContext(), *session)
		c.Locals(SessionContextKey, &filtered)
		c.SetUserContext(domain.WithSession(c.UserContext(), &filtered))

		return c.Next()
	}
}

func GetSession(c *fiber.Ctx) *domain.Session {
	session, ok := c.Locals(SessionContextKey).(*domain.Session)
	if !ok {
		return nil
	}
	return session
}

// GetCurrentUserID returns 0 for anonymous requests.
func GetCurrentUserID(c *fiber.Ctx) int64 {
	if session := GetSession(c); session != nil {
		return session.UserID
	}
	return 0
}
