package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/policy"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

// RequireRole ensures the resolved identity holds role. It must run after
// AuthMiddleware.Required.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewUnauthenticated("Unauthorized")
		}
		if err := policy.RequireRole(identity, role); err != nil {
			return err
		}
		return c.Next()
	}
}
