package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserRepo(db), mock
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := repo.Create(context.Background(), "taken@example.com", "pw", "MEMBER", 4)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestGetByEmailNormalizesCase(t *testing.T) {
	repo, mock := newUserRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = ?")).
		WithArgs("maria@example.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}).
			AddRow(7, "maria@example.com", "hash", "CHURCH", true, now, now))

	u, err := repo.GetByEmail(context.Background(), "  Maria@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), u.ID)
	assert.Equal(t, "CHURCH", u.Role)
	assert.True(t, u.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}
