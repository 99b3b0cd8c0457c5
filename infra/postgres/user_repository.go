package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pos/domain"

	"github.com/google/uuid"
)

func (r *PgRepository) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	query := `SELECT id, username, password_hash, role, created_at FROM users WHERE username = $1`

	if err := r.db.GetContext(ctx, &u, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, domain.ErrNotFound
		}
		return u, err
	}

	return u, nil
}

func (r *PgRepository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	var u domain.User
	query := `
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, role, created_at`

	err := r.db.GetContext(ctx, &u, query, uuid.NewString(), user.Username, user.PasswordHash, user.Role)
	if hasCode(err, uniqueViolation) {
		return u, fmt.Errorf("%w: username %q is taken", domain.ErrValidation, user.Username)
	}
	return u, err
}
