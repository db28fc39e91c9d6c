package admin

import (
	"context"

	"go.uber.org/zap"

	"velvetvogue-be/internal/logger"
)

// Service authenticates the single configured admin account.
type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type service struct {
	username     string
	passwordHash string
}

func NewService(username, passwordHash string) Service {
	return &service{username: username, passwordHash: passwordHash}
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if s.passwordHash == "" {
		logger.FromCtx(ctx).Error("admin login attempted without ADMIN_PASSWORD_HASH configured")
		return "", ErrInvalidCredentials
	}
	if username != s.username || !CheckPasswordHash(password, s.passwordHash) {
		logger.FromCtx(ctx).Warn("admin login rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(username)
	if err != nil {
		return "", err
	}
	logger.FromCtx(ctx).Info("admin login", zap.String("username", username))
	return token, nil
}
