package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
)

// Cookie names carrying session credentials.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieWriter sets and clears the credential cookies.
type CookieWriter struct {
	secure     bool
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCookieWriter builds a writer; secure should be true in production.
func NewCookieWriter(secure bool, accessTTL, refreshTTL time.Duration) *CookieWriter {
	return &CookieWriter{secure: secure, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Set writes both tokens as httpOnly, SameSite=Strict cookies.
func (w *CookieWriter) Set(c *fiber.Ctx, pair *domain.TokenPair) {
	c.Cookie(w.cookie(AccessTokenCookie, pair.AccessToken, w.accessTTL))
	c.Cookie(w.cookie(RefreshTokenCookie, pair.RefreshToken, w.refreshTTL))
}

// Clear expires both credential cookies.
func (w *CookieWriter) Clear(c *fiber.Ctx) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		ck := w.cookie(name, "", 0)
		ck.MaxAge = -1
		ck.Expires = time.Unix(0, 0)
		c.Cookie(ck)
	}
}

func (w *CookieWriter) cookie(name, value string, ttl time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HTTPOnly: true,
		Secure:   w.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	}
}
