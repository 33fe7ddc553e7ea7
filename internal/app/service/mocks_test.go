package service

import (
	"context"
	"testing"
	"time"

	"taskzone/internal/common/security"
	"taskzone/internal/domain/model"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

type mockPageCache struct {
	mock.Mock
}

func (m *mockPageCache) GetPage(ctx context.Context, limit, offset int) (string, []model.PublicUser, bool) {
	args := m.Called(ctx, limit, offset)
	users, _ := args.Get(1).([]model.PublicUser)
	return args.String(0), users, args.Bool(2)
}

func (m *mockPageCache) SetPage(ctx context.Context, key string, users []model.PublicUser) {
	m.Called(ctx, key, users)
}

func (m *mockPageCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

func newTestHasher() *security.PasswordHasher {
	return security.NewPasswordHasher(bcrypt.MinCost)
}

func newTestTokens(t *testing.T, now func() time.Time) *security.TokenService {
	t.Helper()
	opts := []security.TokenOption{}
	if now != nil {
		opts = append(opts, security.WithClock(now))
	}
	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret:    []byte("test-secret"),
		Algorithm: "HS256",
		Lifetime:  30 * time.Minute,
	}, opts...)
	require.NoError(t, err)
	return tokens
}

var nopLogger = zap.NewNop()
