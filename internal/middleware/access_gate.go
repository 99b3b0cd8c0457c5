package middleware

import (
	"context"
	"errors"
	"pos/pkg/httperror"
	"pos/pkg/token"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TokenValidator interface {
	Validate(tokenString string) (*token.Claims, error)
}

// NewAccessGateMiddleware requires a valid bearer token and attaches its
// claims to the user context. Role checks are left to the handlers.
func NewAccessGateMiddleware(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))

		scheme, tokenString, found := strings.Cut(authorization, " ")
		tokenString = strings.TrimSpace(tokenString)
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			return reject(c, httperror.Unauthorized(
				"auth.token.missing",
				"Access denied. No token provided.",
				nil,
			))
		}

		claims, err := validator.Validate(tokenString)
		if err != nil {
			message := "Invalid token."
			if errors.Is(err, token.ErrExpiredToken) {
				message = "Token expired."
			}
			zap.L().Warn("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return reject(c, httperror.Forbidden("auth.token.invalid", message, nil))
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		c.SetUserContext(token.WithClaims(userCtx, claims))
		return c.Next()
	}
}

func reject(c *fiber.Ctx, err *httperror.Error) error {
	return c.Status(err.Status).JSON(fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	})
}
