package domain

import "time"

// Identity is the request-scoped caller derived from a verified token.
// It is rebuilt from the user record on every request and never persisted.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin reports whether the caller is an administrator.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// TokenPair holds freshly issued session credentials.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
