package security

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
)

// ErrInvalidToken is returned for every token that fails verification,
// whatever the underlying reason.
var ErrInvalidToken = errors.New("invalid token")

// TokenConfig holds the signing settings of a TokenService.
type TokenConfig struct {
	Secret    []byte
	Algorithm string
	Lifetime  time.Duration
}

// TokenService issues and verifies signed access tokens.
type TokenService struct {
	auth     *jwtauth.JWTAuth
	lifetime time.Duration
	now      func() time.Time
}

type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuing and validating tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	switch cfg.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.Lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", cfg.Lifetime)
	}

	s := &TokenService{lifetime: cfg.Lifetime, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	clock := jwxjwt.ClockFunc(func() time.Time { return s.now() })
	s.auth = jwtauth.New(cfg.Algorithm, cfg.Secret, nil,
		jwxjwt.WithClock(clock),
		jwxjwt.WithRequiredClaim(jwxjwt.ExpirationKey),
	)
	return s, nil
}

// Issue signs a token for subject that expires after the configured lifetime.
func (s *TokenService) Issue(subject string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": now.Add(s.lifetime).Unix(),
		"iat": now.Unix(),
		"jti": uuid.NewString(),
	}
	_, tokenString, err := s.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns its
// subject. Any failure is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwtauth.VerifyToken(s.auth, tokenString)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	subject, err := GetSubjectFromClaims(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return subject, nil
}

func GetSubjectFromClaims(claims jwt.MapClaims) (string, error) {
	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("sub claim is missing or empty")
	}
	return sub, nil
}
