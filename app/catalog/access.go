package catalog

import (
	"context"
	"errors"
	"fmt"
	"pos/domain"
	"pos/pkg/events"
	"pos/pkg/httperror"
	"pos/pkg/token"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// requireAdmin checks the role the access gate attached to ctx.
func requireAdmin(ctx context.Context, code string) error {
	claims, ok := token.ClaimsFromContext(ctx)
	if !ok {
		return httperror.Unauthorized(code+".unauthorized", "Authentication required", nil)
	}
	if !claims.IsAdmin() {
		return httperror.Forbidden(code+".forbidden", "Admin role required", nil)
	}
	return nil
}

func validationError(code string, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return httperror.BadRequest(code+".validation_failed", "Validation failed for the request", ve.Error())
	}
	if errors.Is(err, domain.ErrValidation) {
		return httperror.BadRequest(code+".validation_failed", "Validation failed for the request", err)
	}
	return httperror.InternalServerError(code+".validation_error", "An unexpected validation error occurred", err)
}

func invalidate(ctx context.Context, cache Cache) {
	if err := cache.Invalidate(ctx); err != nil {
		zap.L().Warn("Failed to invalidate catalog cache", zap.Error(err))
	}
}

func publish(ctx context.Context, publisher events.Publisher, name string, payload any) {
	events.Emit(ctx, publisher, events.CatalogExchange, name, payload, events.ServiceName)
}

func categoryNotFound(code, id string) error {
	return httperror.NotFound(code+".not_found", "Category not found", fmt.Sprintf("category %s does not exist", id))
}
