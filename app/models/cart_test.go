package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestRecalculateTotals(t *testing.T) {
	c := Cart{Items: []CartItem{
		{ID: primitive.NewObjectID(), Quantity: 2, Price: 50},
		{ID: primitive.NewObjectID(), Quantity: 1, Price: 30},
		{ID: primitive.NewObjectID(), Quantity: 3, Price: 9.99},
	}}

	c.RecalculateTotals()
	assert.Equal(t, 6, c.TotalQuantity)
	assert.InDelta(t, 159.97, c.Subtotal, 1e-9)

	// Idempotent: running it again changes nothing.
	c.RecalculateTotals()
	assert.Equal(t, 6, c.TotalQuantity)
	assert.InDelta(t, 159.97, c.Subtotal, 1e-9)
}

func TestRecalculateTotalsEmpty(t *testing.T) {
	c := EmptyCart()
	c.RecalculateTotals()
	assert.Zero(t, c.TotalQuantity)
	assert.Zero(t, c.Subtotal)
}

func TestItemLookup(t *testing.T) {
	itemID := primitive.NewObjectID()
	productID := primitive.NewObjectID()
	c := Cart{Items: []CartItem{
		{ID: primitive.NewObjectID(), Product: primitive.NewObjectID()},
		{ID: itemID, Product: productID},
	}}

	assert.Equal(t, 1, c.ItemIndex(itemID))
	assert.Equal(t, 1, c.ItemIndexByProduct(productID))
	assert.Equal(t, -1, c.ItemIndex(primitive.NewObjectID()))
	assert.Equal(t, -1, c.ItemIndexByProduct(primitive.NewObjectID()))
}
