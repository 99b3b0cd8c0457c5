package auth

import (
	"context"
	"errors"
	"pos/domain"
	"pos/pkg/httperror"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type LoginHandler struct {
	repository UserRepository
	issuer     TokenIssuer
}

func NewLoginHandler(repository UserRepository, issuer TokenIssuer) *LoginHandler {
	return &LoginHandler{
		repository: repository,
		issuer:     issuer,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

func (h LoginHandler) Handle(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)

	if err := validate.Struct(req); err != nil {
		return nil, httperror.BadRequest(
			"auth.login.validation_failed",
			"Username and password are required",
			nil,
		)
	}

	user, err := h.repository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			zap.L().Info("Login attempt for unknown user", zap.String("username", req.Username))
			return nil, invalidCredentials()
		}
		return nil, httperror.InternalServerError("auth.login.failed", "Login failed", err)
	}

	if !user.CheckPassword(req.Password) {
		zap.L().Info("Login attempt with wrong password", zap.String("username", req.Username))
		return nil, invalidCredentials()
	}

	signed, expiresAt, err := h.issuer.Issue(user)
	if err != nil {
		return nil, httperror.InternalServerError("auth.login.failed", "Login failed", err)
	}

	return &LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func invalidCredentials() error {
	return httperror.Unauthorized("auth.login.invalid_credentials", "Invalid username or password", nil)
}
