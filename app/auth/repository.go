package auth

import (
	"context"
	"pos/domain"
	"time"
)

type UserRepository interface {
	// GetUserByUsername returns domain.ErrNotFound when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
}

type TokenIssuer interface {
	Issue(user domain.User) (string, time.Time, error)
}
