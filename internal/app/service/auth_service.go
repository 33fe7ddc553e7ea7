package service

import (
	"context"
	"errors"
	"fmt"

	"taskzone/internal/common"
	"taskzone/internal/common/security"
	"taskzone/internal/domain/model"
	"taskzone/internal/domain/repository"

	"go.uber.org/zap"
)

const TokenTypeBearer = "Bearer"

type TokenIssuer interface {
	Issue(subject string) (string, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	hasher   *security.PasswordHasher
	tokens   TokenIssuer
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, hasher *security.PasswordHasher, tokens TokenIssuer, logger *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, hasher: hasher, tokens: tokens, logger: logger}
}

// LoginRequest is the password grant form. Username carries the email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	TokenType   string `json:"token_type"`
	AccessToken string `json:"access_token"`
}

// Login exchanges an email and password for an access token. An unknown
// email and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrIncorrectCredentials
		}
		s.logger.Error("failed to find user for login", zap.Error(err))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrIncorrectCredentials
	}
	return s.issue(user)
}

// Refresh issues a fresh token for an already resolved principal.
func (s *AuthService) Refresh(ctx context.Context, principal *model.User) (*TokenResponse, error) {
	if principal == nil {
		return nil, common.ErrCredentials
	}
	return s.issue(principal)
}

func (s *AuthService) issue(user *model.User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &TokenResponse{TokenType: TokenTypeBearer, AccessToken: token}, nil
}
