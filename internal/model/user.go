package model

import "time"

// Application roles.  CHURCH accounts own raffles and campaigns;
// MEMBER accounts buy tickets and donate.
const (
	RoleChurch = "CHURCH"
	RoleMember = "MEMBER"
)

// User represents a row in the users table.  PasswordHash is a bcrypt
// hash; the plain password is never stored.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role (CHURCH or MEMBER)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the refresh_tokens table.  Only the
// SHA-256 hash of the token is stored; the raw value goes back to the
// client once and is never persisted.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
