package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// BaseContext makes base the parent of every request's user context, so
// cancelling base aborts in-flight handlers that pass c.UserContext() down.
func BaseContext(base context.Context) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithCancel(base)
		defer cancel()

		c.SetUserContext(ctx)
		return c.Next()
	}
}
