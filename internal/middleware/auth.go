package middleware

import (
	"strings"

	"github.com/earlysteps/casetrack/internal/services"
	"github.com/earlysteps/casetrack/internal/types"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const callerKey = "caller"

// Protect validates the bearer token and resolves the caller identity into
// the request context. Every /api route runs behind it.
func Protect(db *gorm.DB, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authorized, no token",
				Type:    "auth.token.missing",
			}
		}

		userID, err := services.VerifyToken(jwtSecret, token)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authorized, token failed",
				Type:    "auth.token.invalid",
			}
		}

		caller, err := services.LoadCaller(db, userID)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Not authorized, user not found",
				Type:    "auth.user.missing",
			}
		}

		c.Locals(callerKey, caller)
		return c.Next()
	}
}

// Caller returns the authenticated identity stored by Protect. The zero
// Caller is returned on routes that skipped Protect.
func Caller(c *fiber.Ctx) services.Caller {
	if caller, ok := c.Locals(callerKey).(services.Caller); ok {
		return caller
	}
	return services.Caller{}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}
