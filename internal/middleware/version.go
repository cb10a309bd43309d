package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Version records the X-Api-Version request header in context and echoes
// the resolved version on the response, so frontend deployments can detect
// drift against the backend.
func Version(current string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requested := c.Get("X-Api-Version", current)
		c.Locals("apiVersion", requested)
		c.Set("X-Api-Version", current)
		return c.Next()
	}
}
