package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/pkg/apperr"
)

// OrderStatus is the order's lifecycle state.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s is a known status value.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Payment methods.
const (
	PaymentCreditCard     = "Credit Card"
	PaymentPayPal         = "PayPal"
	PaymentCashOnDelivery = "Cash on Delivery"
)

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentCashOnDelivery:
		return true
	}
	return false
}

// OrderItem is an immutable snapshot of a product at order time. It is a
// value copy, not a live reference: the historical total of an order never
// drifts when the product's price or name changes later.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
	Image    string             `bson:"image" json:"image"`
}

// ShippingAddress is the required delivery sub-document.
type ShippingAddress struct {
	FullName   string `bson:"fullName" json:"fullName" validate:"required"`
	Address    string `bson:"address" json:"address" validate:"required"`
	City       string `bson:"city" json:"city" validate:"required"`
	PostalCode string `bson:"postalCode" json:"postalCode" validate:"required"`
	Country    string `bson:"country" json:"country" validate:"required"`
	Phone      string `bson:"phone" json:"phone" validate:"required"`
}

// PaymentResult is the opaque payment-provider outcome recorded on markPaid.
type PaymentResult struct {
	ID           string `bson:"id,omitempty" json:"id,omitempty"`
	Status       string `bson:"status,omitempty" json:"status,omitempty"`
	UpdateTime   string `bson:"update_time,omitempty" json:"update_time,omitempty"`
	EmailAddress string `bson:"email_address,omitempty" json:"email_address,omitempty"`
}

// Order is the immutable purchase snapshot. Only status and payment fields
// change after creation; the price fields are computed once at creation and
// never recomputed.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	UserInfo        *UserSummary       `bson:"-" json:"userInfo,omitempty"`
	Items           []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentResult   *PaymentResult     `bson:"paymentResult,omitempty" json:"paymentResult,omitempty"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice        float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	Status          OrderStatus        `bson:"orderStatus" json:"orderStatus"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Reference returns the short human-facing order reference: the last eight
// hex chars of the id, upper-cased. Used in email subjects.
func (o Order) Reference() string {
	hex := o.ID.Hex()
	if len(hex) < 8 {
		return hex
	}
	return strings.ToUpper(hex[len(hex)-8:])
}

// Cancellable reports whether the order may still be cancelled. Shipped and
// delivered orders are past the point of no return.
func (o Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}

// Transition validates a status change. The lifecycle is forward-biased:
//
//	Pending → Processing → Shipped → Delivered (terminal)
//
// with Cancelled reachable from Pending or Processing only.
func (o Order) Transition(next OrderStatus) error {
	if !ValidOrderStatus(next) {
		return apperr.New(apperr.InvalidInput, "Invalid order status %q", next)
	}

	if next == StatusCancelled && !o.Cancellable() {
		return apperr.New(apperr.InvalidState,
			"Cannot cancel order that is %s", strings.ToLower(string(o.Status)))
	}

	if o.Status == StatusDelivered || o.Status == StatusCancelled {
		return apperr.New(apperr.InvalidState,
			"Order is already %s", strings.ToLower(string(o.Status)))
	}

	return nil
}
