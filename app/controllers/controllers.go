// Package controllers holds the HTTP handlers: bind and validate the
// request, call the service, write the response envelope. No business
// logic lives here.
package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/authz"
	"github.com/storefront/backend/pkg/bind"
	"github.com/storefront/backend/pkg/middleware"
	"github.com/storefront/backend/pkg/response"
)

// objectIDParam parses a hex ObjectID URL parameter.
func objectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, name)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.New(apperr.InvalidInput, "Invalid %s %q", name, raw)
	}
	return id, nil
}

// principal returns the authenticated actor. The Auth middleware guards
// every route that reaches here, so absence is a programming error surfaced
// as a 401 rather than a panic.
func principal(w http.ResponseWriter, r *http.Request) (authz.Principal, bool) {
	p, ok := middleware.PrincipalFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
		return authz.Principal{}, false
	}
	return p, true
}

// bindBody decodes and validates a JSON body, writing the error response
// itself. Returns false when the handler should stop.
func bindBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return false
	}
	return true
}
