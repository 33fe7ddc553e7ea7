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

const (
	DefaultUsersLimit  = 10
	DefaultUsersOffset = 0
)

// UserPageCache caches pages of the public user listing. GetPage returns the
// key a missed page should be stored under with SetPage; an empty key
// disables the store.
type UserPageCache interface {
	GetPage(ctx context.Context, limit, offset int) (string, []model.PublicUser, bool)
	SetPage(ctx context.Context, key string, users []model.PublicUser)
	Invalidate(ctx context.Context)
}

type nopUserPageCache struct{}

func (nopUserPageCache) GetPage(context.Context, int, int) (string, []model.PublicUser, bool) {
	return "", nil, false
}
func (nopUserPageCache) SetPage(context.Context, string, []model.PublicUser) {}
func (nopUserPageCache) Invalidate(context.Context)                          {}

type UserService struct {
	userRepo    repository.UserRepository
	hasher      *security.PasswordHasher
	cache       UserPageCache
	maxPageSize int
	logger      *zap.Logger
}

type UserServiceOption func(*UserService)

func WithUserPageCache(cache UserPageCache) UserServiceOption {
	return func(s *UserService) {
		if cache != nil {
			s.cache = cache
		}
	}
}

// WithMaxPageSize caps the limit of List. Zero leaves it unbounded.
func WithMaxPageSize(n int) UserServiceOption {
	return func(s *UserService) {
		s.maxPageSize = n
	}
}

func NewUserService(userRepo repository.UserRepository, hasher *security.PasswordHasher, logger *zap.Logger, opts ...UserServiceOption) *UserService {
	s := &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		cache:    nopUserPageCache{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type UserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserListResponse struct {
	Users []model.PublicUser `json:"users"`
}

// Register creates a user. A taken username is reported before a taken email.
func (s *UserService) Register(ctx context.Context, req UserRequest) (*model.PublicUser, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	if err := s.ensureFree(ctx, s.userRepo.FindByUsername, req.Username, common.ErrUsernameTaken); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.userRepo.FindByEmail, req.Email, common.ErrEmailTaken); err != nil {
		return nil, err
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user", zap.String("username", req.Username), zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.cache.Invalidate(ctx)

	public := user.Public()
	return &public, nil
}

func (s *UserService) ensureFree(ctx context.Context, find func(context.Context, string) (*model.User, error), value string, taken error) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return taken
	case errors.Is(err, common.ErrNotFound):
		return nil
	default:
		s.logger.Error("failed to check user uniqueness", zap.Error(err))
		return fmt.Errorf("failed to check user uniqueness: %w", err)
	}
}

// List returns a page of users ordered by id.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.PublicUser, error) {
	var fields []common.FieldError
	if limit < 0 {
		fields = append(fields, common.QueryFieldError("limit", "ensure this value is greater than or equal to 0", "value_error.number.not_ge"))
	}
	if offset < 0 {
		fields = append(fields, common.QueryFieldError("skip", "ensure this value is greater than or equal to 0", "value_error.number.not_ge"))
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError(fields...)
	}
	if s.maxPageSize > 0 && limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	key, cached, ok := s.cache.GetPage(ctx, limit, offset)
	if ok {
		return cached, nil
	}

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", zap.Int("limit", limit), zap.Int("offset", offset), zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	public := make([]model.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	s.cache.SetPage(ctx, key, public)
	return public, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*model.PublicUser, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		s.logger.Error("failed to get user", zap.Int64("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	public := user.Public()
	return &public, nil
}

// Replace overwrites every field of the principal's own record. The password
// is always re-hashed.
func (s *UserService) Replace(ctx context.Context, id int64, req UserRequest, principal *model.User) (*model.PublicUser, error) {
	if principal == nil {
		return nil, common.ErrCredentials
	}
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	if principal.ID != id {
		return nil, common.ErrNotEnoughPermissions
	}

	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := *principal
	user.Username = req.Username
	user.Email = req.Email
	user.HashedPassword = hashed

	if err := s.userRepo.Update(ctx, &user); err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			return nil, common.ErrUserNotFound
		case errors.Is(err, common.ErrConflict):
			return nil, err
		}
		s.logger.Error("failed to update user", zap.Int64("user_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	s.cache.Invalidate(ctx)

	public := user.Public()
	return &public, nil
}

// Delete removes the principal's own record together with its tasks.
func (s *UserService) Delete(ctx context.Context, id int64, principal *model.User) error {
	if principal == nil {
		return common.ErrCredentials
	}
	if principal.ID != id {
		return common.ErrNotEnoughPermissions
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		s.logger.Error("failed to delete user", zap.Int64("user_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

func (s *UserService) hashPassword(password string) (string, error) {
	hashed, err := s.hasher.HashPassword(password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return "", common.NewValidationError(common.BodyFieldError("password",
				"ensure this value has at most 72 bytes", "value_error.any_str.max_length"))
		}
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hashed, nil
}
