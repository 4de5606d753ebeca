package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/pkg/apperr"
)

func TestCanAccess(t *testing.T) {
	owner := primitive.NewObjectID()

	assert.NoError(t, CanAccess(Principal{ID: owner, Role: RoleCustomer}, owner, "no"))
	assert.NoError(t, CanAccess(Principal{ID: primitive.NewObjectID(), Role: RoleAdmin}, owner, "no"))

	err := CanAccess(Principal{ID: primitive.NewObjectID(), Role: RoleCustomer}, owner, "Not authorized to access this order")
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
	assert.EqualError(t, err, "Not authorized to access this order")
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, Principal{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Principal{Role: RoleCustomer}.IsAdmin())
	assert.False(t, Principal{}.IsAdmin())
}
