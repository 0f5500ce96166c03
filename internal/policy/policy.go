// Package policy holds the authorization decisions shared by the product and
// account services. Every function here is pure: no I/O, no logging.
package policy

import (
	"github.com/davydocsurg/techinnover-ecommerce-api/internal/domain"
	apperrors "github.com/davydocsurg/techinnover-ecommerce-api/pkg/util/errorutil"
)

// Mutation names an account change that the admin veto applies to.
type Mutation string

const (
	MutationBan    Mutation = "ban"
	MutationDelete Mutation = "delete"
	MutationUpdate Mutation = "update"
)

// Scope is the visibility predicate forced onto a product listing.
type Scope struct {
	// ApprovedOnly restricts rows to approved products.
	ApprovedOnly bool
	// ApprovedOrOwner restricts rows to approved products or products owned by
	// this user id. Ignored when empty.
	ApprovedOrOwner string
}

// Unrestricted reports whether no visibility filter is forced.
func (s Scope) Unrestricted() bool {
	return !s.ApprovedOnly && s.ApprovedOrOwner == ""
}

// RequireRole fails with Forbidden unless identity holds role.
func RequireRole(identity *domain.Identity, role domain.Role) error {
	if identity == nil || identity.Role != role {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}

// RequireOwnerOrAdmin fails with Forbidden unless the caller is an admin or owns
// the resource.
func RequireOwnerOrAdmin(identity *domain.Identity, ownerID string) error {
	if identity == nil {
		return apperrors.NewForbidden("You are not authorized to perform this action")
	}
	if identity.IsAdmin() || identity.UserID == ownerID {
		return nil
	}
	return apperrors.NewForbidden("You are not authorized to perform this action")
}

// VisibleToCaller reports whether identity may view product. A nil identity is
// an anonymous caller and only sees approved products.
func VisibleToCaller(product *domain.Product, identity *domain.Identity) bool {
	if product == nil {
		return false
	}
	if product.IsApproved {
		return true
	}
	if identity == nil {
		return false
	}
	return identity.IsAdmin() || identity.UserID == product.UserID
}

// ListingScope returns the filter a product listing must apply for identity.
func ListingScope(identity *domain.Identity) Scope {
	switch {
	case identity == nil:
		return Scope{ApprovedOnly: true}
	case identity.IsAdmin():
		return Scope{}
	default:
		return Scope{ApprovedOrOwner: identity.UserID}
	}
}

// ProtectAdminAccount rejects banning or deleting an administrator, whoever the
// caller is.
func ProtectAdminAccount(target *domain.User, mutation Mutation) error {
	if target == nil || !target.IsAdmin() {
		return nil
	}
	switch mutation {
	case MutationBan:
		return apperrors.NewBadRequest("Cannot ban an admin user")
	case MutationDelete:
		return apperrors.NewBadRequest("Cannot delete an admin user")
	}
	return nil
}
