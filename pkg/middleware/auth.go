package middleware

import (
	"ritcompass/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// OptionalClaims decodes the Authorization header when present and stores the
// claims in the request locals. A missing or bad token never rejects the
// request.
func OptionalClaims(decoder *auth.Decoder, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		claims, err := decoder.DecodeHeader(header)
		if err != nil {
			logger.Warn("Ignoring authorization header", zap.Error(err))
			return c.Next()
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// Claims returns the claims stored by OptionalClaims, or nil.
func Claims(c *fiber.Ctx) jwt.MapClaims {
	claims, _ := c.Locals(claimsKey).(jwt.MapClaims)
	return claims
}
