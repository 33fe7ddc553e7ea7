package service

import (
	"context"
	"errors"
	"fmt"

	"taskzone/internal/common"
	"taskzone/internal/domain/model"
	"taskzone/internal/domain/repository"

	"go.uber.org/zap"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// IdentityResolver turns a bearer token into the user it was issued for.
// The user is looked up on every call, so a token outlives neither its
// expiry nor the account it names.
type IdentityResolver struct {
	tokens TokenVerifier
	users  repository.UserRepository
	logger *zap.Logger
}

func NewIdentityResolver(tokens TokenVerifier, users repository.UserRepository, logger *zap.Logger) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users, logger: logger}
}

// Resolve returns common.ErrCredentials for every authentication failure.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, common.ErrCredentials
	}

	subject, err := r.tokens.Verify(token)
	if err != nil {
		r.logger.Debug("token rejected", zap.Error(err))
		return nil, common.ErrCredentials
	}

	user, err := r.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrCredentials
		}
		r.logger.Error("failed to load token subject", zap.String("subject", subject), zap.Error(err))
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return user, nil
}
