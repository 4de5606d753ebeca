package notifications

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
)

func TestRenderOrderConfirmation(t *testing.T) {
	id, _ := primitive.ObjectIDFromHex("65f1c0ffee00deadbeef1234")
	order := models.Order{
		ID: id,
		Items: []models.OrderItem{
			{Name: "Wireless Headphones", Quantity: 2, Price: 50},
		},
		ShippingAddress: models.ShippingAddress{
			FullName: "Jo Tester", Address: "1 Main St", City: "Springfield",
			PostalCode: "12345", Country: "USA", Phone: "555-0100",
		},
		ItemsPrice: 100, TaxPrice: 10, ShippingPrice: 10, TotalPrice: 120,
	}
	u := models.User{Name: "Jo", Email: "jo@example.com"}

	html := renderOrderConfirmation(u, order)
	assert.Contains(t, html, "BEEF1234")
	assert.Contains(t, html, "Wireless Headphones")
	assert.Contains(t, html, "$120.00")
	assert.Contains(t, html, "Springfield")
}

func TestRenderEscapesUserContent(t *testing.T) {
	u := models.User{Name: "<script>alert(1)</script>"}
	html := renderWelcome(u)
	assert.NotContains(t, html, "<script>")
}

func TestRenderPasswordResetIncludesLink(t *testing.T) {
	u := models.User{Name: "Jo"}
	html := renderPasswordReset(u, "https://shop.example.com/reset-password/abc123")
	assert.Contains(t, html, "https://shop.example.com/reset-password/abc123")
	assert.Contains(t, html, "expires in one hour")
}
