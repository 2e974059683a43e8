package storage

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/GoArmGo/JokesApp/internal/core/ports"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateUserUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, discardLogger())

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := s.CreateUser(context.Background(), "alice", "hash")
	assert.ErrorIs(t, err, ports.ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserInserts(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, discardLogger())

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := s.CreateUser(context.Background(), "alice", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, discardLogger())

	mock.ExpectQuery("SELECT \\* FROM users WHERE id").
		WillReturnError(sql.ErrNoRows)

	user, err := s.GetUserByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetUserByUsernameFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewUserStorage(db, discardLogger())

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at", "updated_at"}).
		AddRow(id, "alice", "hash", now, now)

	mock.ExpectQuery("SELECT \\* FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := s.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)
}
