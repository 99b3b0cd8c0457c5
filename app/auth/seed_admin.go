package auth

import (
	"context"
	"errors"
	"fmt"
	"pos/domain"

	"go.uber.org/zap"
)

// SeedAdmin creates the admin account unless a user with that name exists.
// It reports whether a user was created.
func SeedAdmin(ctx context.Context, repository UserRepository, username, password string) (bool, error) {
	existing, err := repository.GetUserByUsername(ctx, username)
	if err == nil {
		zap.L().Info("Admin user already exists", zap.String("username", existing.Username))
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("look up admin user: %w", err)
	}

	user, err := domain.NewUser(username, password, domain.RoleAdmin)
	if err != nil {
		return false, err
	}

	created, err := repository.CreateUser(ctx, user)
	if err != nil {
		return false, fmt.Errorf("create admin user: %w", err)
	}

	zap.L().Info("Admin user created", zap.String("username", created.Username), zap.String("id", created.ID))
	return true, nil
}
