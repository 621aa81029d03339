package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/domain/repository"
)

func TestUserRepository_CreateConflict(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "hash", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.User{Username: "alice", Password: "hash"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestUserRepository_GetByAccessToken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)
	now := time.Now().UTC()
	token := "tok"

	mock.ExpectQuery(`FROM users WHERE access_token = \$1`).
		WithArgs("tok").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "access_token", "created_at", "updated_at"}).
			AddRow("u1", "alice", "hash", &token, now, now))

	u, err := repo.GetByAccessToken(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "tok", u.AccessToken)
	assert.True(t, u.LoggedIn())
}

func TestUserRepository_GetByAccessTokenEmpty(t *testing.T) {
	repo := NewUserRepository(newMockPool(t))

	_, err := repo.GetByAccessToken(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_ClearAccessToken(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec(`UPDATE users\s+SET access_token = \$1`).
		WithArgs((*string)(nil), "u1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.SetAccessToken(context.Background(), "u1", ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByIDMalformedID(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).WithArgs("42").
		WillReturnError(&pgconn.PgError{Code: "22P02"})

	_, err := repo.GetByID(context.Background(), "42")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
