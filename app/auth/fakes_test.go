package auth

import (
	"context"
	"errors"
	"pos/domain"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memUsers struct {
	mu       sync.Mutex
	users    map[string]domain.User
	failWith error
}

func newMemUsers(users ...domain.User) *memUsers {
	r := &memUsers{users: map[string]domain.User{}}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (r *memUsers) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return domain.User{}, r.failWith
	}
	u, ok := r.users[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *memUsers) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failWith != nil {
		return domain.User{}, r.failWith
	}
	if _, ok := r.users[user.Username]; ok {
		return domain.User{}, errors.New("duplicate username")
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	r.users[user.Username] = user
	return user, nil
}

type stubIssuer struct {
	token string
	err   error
}

func (s stubIssuer) Issue(domain.User) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	return s.token, time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC), nil
}

var errStoreDown = errors.New("connection refused")
