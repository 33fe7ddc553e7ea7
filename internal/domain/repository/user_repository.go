package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"taskzone/internal/common"
	"taskzone/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
}

const userColumns = `id, username, email, password, created_at, updated_at`

// Names of the unique constraints declared by the users migration.
const (
	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

type pgUserRepository struct {
	db *sqlx.DB
}

func NewPgUserRepository(db *sqlx.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, password)
	          VALUES ($1, $2, $3)
	          RETURNING ` + userColumns
	err := r.db.GetContext(ctx, user, query, user.Username, user.Email, user.HashedPassword)
	if err != nil {
		if conflict := userConflictFromError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET username = $1, email = $2, password = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4
	          RETURNING ` + userColumns
	err := r.db.GetContext(ctx, user, query, user.Username, user.Email, user.HashedPassword, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if conflict := userConflictFromError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("pgUserRepository.Update: %w", err)
	}
	return nil
}

func (r *pgUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByID", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByEmail", `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByUsername", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *pgUserRepository) findOne(ctx context.Context, op, query string, arg interface{}) (*model.User, error) {
	user := &model.User{}
	if err := r.db.GetContext(ctx, user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (r *pgUserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	users := []model.User{}
	if err := r.db.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	return users, nil
}

// userConflictFromError translates a unique violation on the users table into
// the conflict error naming the offending field.
func userConflictFromError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != common.UniqueViolationCode {
		return nil
	}
	switch pgErr.ConstraintName {
	case usersUsernameKey:
		return common.ErrUsernameTaken
	case usersEmailKey:
		return common.ErrEmailTaken
	}
	return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
}
