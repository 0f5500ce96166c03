package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

// Hasher hashes and verifies stored credentials.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

// BcryptHasher implements Hasher with a configurable bcrypt cost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher; out-of-range costs fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash hashes a plaintext password with the configured cost. Passwords longer
// than bcrypt's 72-byte input limit are rejected as BadRequest.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	digest, err := HashPassword(plain, h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewBadRequest("Password must be at most 72 bytes")
	}
	return digest, err
}

// Verify reports whether plain matches digest. Malformed digests never match.
func (h *BcryptHasher) Verify(plain, digest string) bool {
	return ComparePassword(digest, plain) == nil
}

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
