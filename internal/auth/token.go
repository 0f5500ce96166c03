package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
)

// Verification failures returned by TokenManager.Verify.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenVerifier recovers the subject asserted by a signed token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// TokenManager handles issuing and validating JWT tokens. Access and refresh
// tokens share the secret and the verification path; only their expiry differs.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Claims describes JWT payload.
type Claims struct {
	jwt.RegisteredClaims
}

// AccessTTL returns the lifetime of access tokens.
func (tm *TokenManager) AccessTTL() time.Duration { return tm.accessTTL }

// RefreshTTL returns the lifetime of refresh tokens.
func (tm *TokenManager) RefreshTTL() time.Duration { return tm.refreshTTL }

// Issue builds and signs a JWT for the subject.
func (tm *TokenManager) Issue(subjectID string, ttl time.Duration) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// IssuePair mints an access and a refresh token for the subject.
func (tm *TokenManager) IssuePair(subjectID string) (*domain.TokenPair, error) {
	access, accessExp, err := tm.Issue(subjectID, tm.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := tm.Issue(subjectID, tm.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Verify validates the token and returns its subject.
func (tm *TokenManager) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", classifyTokenError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignature
	default:
		return ErrTokenMalformed
	}
}
