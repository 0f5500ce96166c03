package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

// UserLookup loads the account a token subject refers to.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// IdentityResolver turns a raw token into the acting identity.
type IdentityResolver struct {
	tokens TokenVerifier
	users  UserLookup
}

// NewIdentityResolver constructs a resolver.
func NewIdentityResolver(tokens TokenVerifier, users UserLookup) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, users: users}
}

// Resolve verifies token and loads its subject. Missing, invalid and expired
// tokens, deleted accounts and banned accounts all fail as Unauthenticated so
// callers cannot tell them apart. Storage failures surface unchanged.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, apperrors.NewUnauthenticated("Unauthorized")
	}
	subject, err := r.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.NewUnauthenticated("Unauthorized")
	}

	user, err := r.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthenticated("Unauthorized")
		}
		return nil, err
	}
	if user.IsBanned {
		return nil, apperrors.NewUnauthenticated("Unauthorized")
	}

	return &domain.Identity{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}
