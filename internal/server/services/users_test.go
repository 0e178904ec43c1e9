package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/dmitrijs2005/shutterpro/internal/server/auth"
	"github.com/dmitrijs2005/shutterpro/internal/server/config"
	"github.com/dmitrijs2005/shutterpro/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*UserService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	cfg := &config.Config{SecretKey: "test-secret", TokenValidityDuration: time.Hour}
	s := NewUserService(db, repomanager.NewPostgresRepositoryManager(), cfg)
	return s, mock, db
}

func userRows(t *testing.T, plain string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "company", "phone"}).
		AddRow("u-1", "anna@example.com", string(hash), "Anna", "Anna Photo", "111")
}

func TestLogin_Success(t *testing.T) {
	s, mock, db := newService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email`).
		WithArgs("anna@example.com").
		WillReturnRows(userRows(t, "secret1"))

	res, err := s.Login(context.Background(), "anna@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", res.User.ID)
	assert.Empty(t, res.User.PasswordHash)

	userID, err := auth.GetUserIDFromToken(res.Token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

func TestLogin_WrongPassword(t *testing.T) {
	s, mock, db := newService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email`).
		WithArgs("anna@example.com").
		WillReturnRows(userRows(t, "secret1"))

	_, err := s.Login(context.Background(), "anna@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_UnknownEmail(t *testing.T) {
	s, mock, db := newService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.Login(context.Background(), "ghost@example.com", "secret1")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestLogin_DBError(t *testing.T) {
	s, mock, db := newService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email`).
		WithArgs("anna@example.com").
		WillReturnError(assert.AnError)

	_, err := s.Login(context.Background(), "anna@example.com", "secret1")
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestChangePassword_Success(t *testing.T) {
	s, mock, db := newService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email.*WHERE\s+id`).
		WithArgs("u-1").
		WillReturnRows(userRows(t, "secret1"))
	mock.ExpectExec(`(?s)^UPDATE\s+users\s+SET\s+password_hash`).
		WithArgs("u-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.ChangePassword(context.Background(), "u-1", "secret1", "next1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	s, mock, db := newService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email.*WHERE\s+id`).
		WithArgs("u-1").
		WillReturnRows(userRows(t, "secret1"))
	mock.ExpectRollback()

	err := s.ChangePassword(context.Background(), "u-1", "wrong", "next1")
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePassword_UnknownUser(t *testing.T) {
	s, mock, db := newService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email.*WHERE\s+id`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := s.ChangePassword(context.Background(), "ghost", "secret1", "next1")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRegister_HashesPassword(t *testing.T) {
	s, mock, db := newService(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+users`).
		WithArgs("ben@example.com", sqlmock.AnyArg(), "Ben", "Ben Studio", "222").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-2"))

	u, err := s.Register(context.Background(), "ben@example.com", "secret2", "Ben", "Ben Studio", "222")
	require.NoError(t, err)
	assert.Equal(t, "u-2", u.ID)
	assert.Empty(t, u.PasswordHash)
}
