package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
)

const identityKey = "auth_identity"

// AuthMiddleware resolves the caller from the request and stores it in Locals.
type AuthMiddleware struct {
	resolver *IdentityResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(resolver *IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Required rejects the request unless a valid, non-banned identity resolves.
// Cookies are tried in order, then the Authorization header.
func (m *AuthMiddleware) Required(cookieNames ...string) fiber.Handler {
	if len(cookieNames) == 0 {
		cookieNames = []string{AccessTokenCookie}
	}
	return func(c *fiber.Ctx) error {
		identity, err := m.resolver.Resolve(c.UserContext(), TokenFromRequest(c, cookieNames...))
		if err != nil {
			return err
		}
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// Optional attaches an identity when one resolves and otherwise lets the
// request through as anonymous.
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c, AccessTokenCookie)
		if token != "" {
			if identity, err := m.resolver.Resolve(c.UserContext(), token); err == nil {
				c.Locals(identityKey, identity)
			}
		}
		return c.Next()
	}
}

// TokenFromRequest returns the first non-empty token found in the named cookies
// or, failing that, in a Bearer Authorization header.
func TokenFromRequest(c *fiber.Ctx, cookieNames ...string) string {
	for _, name := range cookieNames {
		if token := c.Cookies(name); token != "" {
			return token
		}
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// IdentityFromContext retrieves the authenticated caller, if any.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok && identity != nil
}
