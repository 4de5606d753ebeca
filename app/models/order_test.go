package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/pkg/apperr"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		kind apperr.Kind
		ok   bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, 0, true},
		{"processing to shipped", StatusProcessing, StatusShipped, 0, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, 0, true},
		{"pending cancel", StatusPending, StatusCancelled, 0, true},
		{"processing cancel", StatusProcessing, StatusCancelled, 0, true},
		{"shipped cancel", StatusShipped, StatusCancelled, apperr.InvalidState, false},
		{"delivered cancel", StatusDelivered, StatusCancelled, apperr.InvalidState, false},
		{"delivered is terminal", StatusDelivered, StatusShipped, apperr.InvalidState, false},
		{"cancelled is terminal", StatusCancelled, StatusProcessing, apperr.InvalidState, false},
		{"unknown status", StatusPending, "Vanished", apperr.InvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{Status: tt.from}
			err := o.Transition(tt.to)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.IsKind(err, tt.kind))
		})
	}
}

func TestCancellable(t *testing.T) {
	assert.True(t, Order{Status: StatusPending}.Cancellable())
	assert.True(t, Order{Status: StatusProcessing}.Cancellable())
	assert.False(t, Order{Status: StatusShipped}.Cancellable())
	assert.False(t, Order{Status: StatusDelivered}.Cancellable())
	assert.False(t, Order{Status: StatusCancelled}.Cancellable())
}

func TestReference(t *testing.T) {
	id, err := primitive.ObjectIDFromHex("65f1c0ffee00deadbeef1234")
	assert.NoError(t, err)
	o := Order{ID: id}
	assert.Equal(t, "BEEF1234", o.Reference())
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentCreditCard))
	assert.True(t, ValidPaymentMethod(PaymentPayPal))
	assert.True(t, ValidPaymentMethod(PaymentCashOnDelivery))
	assert.False(t, ValidPaymentMethod("Barter"))
	assert.False(t, ValidPaymentMethod(""))
}
