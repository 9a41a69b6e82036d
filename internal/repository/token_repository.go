package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/connectfe/connectfe-api/internal/model"
)

// TokenRepo persists refresh-token sessions.  Only SHA-256 hashes are
// stored; revocation is a soft delete via revoked_at so a session trail
// survives for audits.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// StoreRefresh records a new refresh-token session for a user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, userID, tokenHash, exp)
	return err
}

// ValidateRefresh looks up a session by token hash and returns it when
// it is live.  Unknown, revoked and expired tokens all collapse into
// ErrTokenInvalid.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (model.RefreshToken, error) {
	const q = `SELECT id, user_id, token_hash, expires_at, revoked_at, created_at
	           FROM refresh_tokens WHERE token_hash = ?`
	var (
		rt      model.RefreshToken
		revoked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, tokenHash).
		Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &revoked, &rt.CreatedAt)
	if err == sql.ErrNoRows {
		return model.RefreshToken{}, ErrTokenInvalid
	}
	if err != nil {
		return model.RefreshToken{}, err
	}
	if revoked.Valid {
		return model.RefreshToken{}, ErrTokenInvalid
	}
	if time.Now().UTC().After(rt.ExpiresAt) {
		return model.RefreshToken{}, ErrTokenInvalid
	}
	return rt, nil
}

// RevokeByHash ends the single session identified by the token hash.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	const q = `UPDATE refresh_tokens SET revoked_at = NOW() WHERE token_hash = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, tokenHash)
	return err
}

// RevokeAllForUser ends every live session of a user, used by the
// log-out-everywhere path.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	const q = `UPDATE refresh_tokens SET revoked_at = NOW() WHERE user_id = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}
