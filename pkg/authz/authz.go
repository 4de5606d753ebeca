// Package authz is the single capability check used by every handler that
// touches user-owned resources. Orders and reviews both enforce the same
// rule — the acting principal must own the resource or be an admin — so the
// rule lives here once instead of being re-spelled per route.
package authz

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/pkg/apperr"
)

// Roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Principal is the authenticated actor performing a request.
type Principal struct {
	ID   primitive.ObjectID
	Role string
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanAccess returns nil when the principal owns the resource or is an admin;
// otherwise an Unauthorized error with the given message.
func CanAccess(p Principal, owner primitive.ObjectID, message string) error {
	if p.IsAdmin() || p.ID == owner {
		return nil
	}
	return apperr.New(apperr.Unauthorized, "%s", message)
}
