package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/00001_create_users.sql", "migrations/00002_create_tasks.sql"}, names)

	users, err := fs.ReadFile(migrations, "migrations/00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(users), "CONSTRAINT users_username_key UNIQUE (username)")
	assert.Contains(t, string(users), "CONSTRAINT users_email_key UNIQUE (email)")

	tasks, err := fs.ReadFile(migrations, "migrations/00002_create_tasks.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(tasks), "ON DELETE CASCADE"))
}

func TestMigrationsLeaveFreeTextUnbounded(t *testing.T) {
	tests := []struct {
		file   string
		column string
	}{
		{"migrations/00001_create_users.sql", "username"},
		{"migrations/00001_create_users.sql", "email"},
		{"migrations/00001_create_users.sql", "password"},
		{"migrations/00002_create_tasks.sql", "title"},
		{"migrations/00002_create_tasks.sql", "description"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			raw, err := fs.ReadFile(migrations, tt.file)
			require.NoError(t, err)

			var def string
			for _, line := range strings.Split(string(raw), "\n") {
				line = strings.TrimSpace(line)
				if strings.HasPrefix(line, tt.column+" ") {
					def = line
					break
				}
			}
			require.NotEmpty(t, def, "column %s not found", tt.column)
			assert.True(t, strings.HasPrefix(def, tt.column+" TEXT "), "got %q", def)
		})
	}
}

func TestMigrate(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, "migrations", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	err = Migrate(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
