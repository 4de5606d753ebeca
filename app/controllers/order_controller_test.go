package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/services"
	"github.com/storefront/backend/pkg/authz"
	"github.com/storefront/backend/pkg/middleware"
)

type validationEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// postOrder drives the Place handler directly with an authenticated
// request body. The validation paths under test reject the request before
// any service dependency is touched.
func postOrder(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	c := NewOrderController(services.NewOrderService(nil, nil, nil, nil, nil))

	p := authz.Principal{ID: primitive.NewObjectID(), Role: authz.RoleCustomer}
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req = req.WithContext(middleware.WithPrincipal(context.Background(), p))

	rec := httptest.NewRecorder()
	c.Place(rec, req)
	return rec
}

func TestPlaceRejectsIncompleteShippingAddress(t *testing.T) {
	rec := postOrder(t, `{
		"paymentMethod": "`+models.PaymentCreditCard+`",
		"shippingAddress": {"fullName": "Jo Tester", "city": "Springfield"}
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env validationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "address")
	assert.Contains(t, env.Errors, "postalCode")
	assert.Contains(t, env.Errors, "country")
	assert.Contains(t, env.Errors, "phone")
	assert.NotContains(t, env.Errors, "fullName")
	assert.NotContains(t, env.Errors, "city")
}

func TestPlaceRejectsMissingPaymentMethod(t *testing.T) {
	rec := postOrder(t, `{
		"shippingAddress": {
			"fullName": "Jo Tester", "address": "1 Main St", "city": "Springfield",
			"postalCode": "12345", "country": "USA", "phone": "555-0100"
		}
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env validationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "paymentMethod")
}
