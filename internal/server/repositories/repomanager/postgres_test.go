package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/useraccounts/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	return db, mock
}

func stubGoose(t *testing.T, fn func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error) {
	t.Helper()
	orig := gooseUpContext
	gooseUpContext = fn
	t.Cleanup(func() { gooseUpContext = orig })
}

func TestPostgresManager_Users(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := NewPostgresRepositoryManager(db)
	var _ RepositoryManager = m

	repo := m.Users()
	require.NotNil(t, repo)
	assert.IsType(t, &users.PostgresRepository{}, repo)
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(ctx context.Context, got *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if got != db || dir != "." || len(opts) != 0 {
			return errors.New("unexpected arguments")
		}
		return nil
	})

	assert.NoError(t, NewPostgresRepositoryManager(db).RunMigrations(context.Background()))
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	stubGoose(t, func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	})

	err := NewPostgresRepositoryManager(db).RunMigrations(context.Background())
	require.Error(t, err)
	assert.Equal(t, "migrate: boom", err.Error())
}

func TestOpenPostgres(t *testing.T) {
	db, mock := newDB(t)

	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, "pgx", driver)
		assert.Equal(t, "postgres://example", dsn)
		return db, nil
	}

	mock.ExpectPing()
	mock.ExpectClose()

	m, err := OpenPostgres(context.Background(), "postgres://example")
	require.NoError(t, err)
	require.NoError(t, m.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenPostgres_PingError(t *testing.T) {
	db, mock := newDB(t)

	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }

	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	_, err := OpenPostgres(context.Background(), "postgres://example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping database: refused")
}

func TestInMemoryManager(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	var _ RepositoryManager = m

	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.Same(t, m.Users(), m.Users())
	assert.NoError(t, m.Close())
}
