package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenCols    = []string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}
	qSelectToken = regexp.QuoteMeta("FROM refresh_tokens WHERE token_hash = ?")
)

func newTokenRepo(t *testing.T) (*TokenRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewTokenRepo(db), mock
}

func TestValidateRefreshLiveSession(t *testing.T) {
	repo, mock := newTokenRepo(t)
	exp := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectQuery(qSelectToken).
		WithArgs("hash-a").
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow(1, 42, "hash-a", exp, nil, time.Now().UTC()))

	rt, err := repo.ValidateRefresh(context.Background(), "hash-a")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), rt.UserID)
	assert.Equal(t, "hash-a", rt.TokenHash)
}

func TestValidateRefreshRejectsExpired(t *testing.T) {
	repo, mock := newTokenRepo(t)
	exp := time.Now().UTC().Add(-time.Minute)

	mock.ExpectQuery(qSelectToken).
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow(1, 42, "hash-a", exp, nil, time.Now().UTC()))

	_, err := repo.ValidateRefresh(context.Background(), "hash-a")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateRefreshRejectsRevoked(t *testing.T) {
	repo, mock := newTokenRepo(t)
	exp := time.Now().UTC().Add(24 * time.Hour)

	mock.ExpectQuery(qSelectToken).
		WillReturnRows(sqlmock.NewRows(tokenCols).
			AddRow(1, 42, "hash-a", exp, time.Now().UTC(), time.Now().UTC()))

	_, err := repo.ValidateRefresh(context.Background(), "hash-a")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateRefreshRejectsUnknown(t *testing.T) {
	repo, mock := newTokenRepo(t)

	mock.ExpectQuery(qSelectToken).
		WillReturnRows(sqlmock.NewRows(tokenCols))

	_, err := repo.ValidateRefresh(context.Background(), "no-such-hash")
	assert.ErrorIs(t, err, ErrTokenInvalid, "unknown and revoked tokens must be indistinguishable")
}
