package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a user's cart. Price is the product's unit price
// captured when the item was added; it is honoured at checkout even if the
// live product price changes afterwards.
type CartItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// Cart holds a single user's line items. There is exactly one cart per user,
// enforced by a unique index on the user field. TotalQuantity and Subtotal
// are derived: RecalculateTotals runs before every persist, so they always
// equal the fold over Items.
type Cart struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Items         []CartItem         `bson:"items" json:"items"`
	TotalQuantity int                `bson:"totalQuantity" json:"totalQuantity"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EmptyCart is the value object returned when a user has no cart document
// yet. Absence of a cart is not an error.
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}}
}

// RecalculateTotals rebuilds the derived totals from the current items.
// Unconditional and idempotent; every mutating cart operation calls it
// before persisting.
func (c *Cart) RecalculateTotals() {
	total := 0
	subtotal := 0.0
	for _, item := range c.Items {
		total += item.Quantity
		subtotal += float64(item.Quantity) * item.Price
	}
	c.TotalQuantity = total
	c.Subtotal = subtotal
}

// ItemIndex returns the position of the line item with the given id, or -1.
func (c *Cart) ItemIndex(itemID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// ItemIndexByProduct returns the position of the line item referencing the
// given product, or -1.
func (c *Cart) ItemIndexByProduct(productID primitive.ObjectID) int {
	for i, item := range c.Items {
		if item.Product == productID {
			return i
		}
	}
	return -1
}
