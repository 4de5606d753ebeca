package seeders

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
)

func sampleProducts(owner primitive.ObjectID) []models.Product {
	return []models.Product{
		{
			Name:        "Wireless Noise-Cancelling Headphones",
			Description: "Over-ear Bluetooth headphones with 30-hour battery life and active noise cancellation.",
			Price:       199.99,
			Stock:       50,
			Category:    "Headphones",
			Images:      []models.ProductImage{},
			User:        owner,
		},
		{
			Name:        "Mirrorless Camera 24MP",
			Description: "Compact mirrorless body with 24MP APS-C sensor, 4K video, and in-body stabilisation.",
			Price:       849.00,
			Stock:       12,
			Category:    "Cameras",
			Images:      []models.ProductImage{},
			User:        owner,
		},
		{
			Name:        "14-inch Ultrabook",
			Description: "Thin and light laptop, 16GB RAM, 512GB SSD, all-day battery.",
			Price:       1099.00,
			Stock:       8,
			Category:    "Laptops",
			Images:      []models.ProductImage{},
			User:        owner,
		},
		{
			Name:        "USB-C Charging Cable 2m",
			Description: "Braided 100W USB-C to USB-C cable.",
			Price:       12.50,
			Stock:       500,
			Category:    "Accessories",
			Images:      []models.ProductImage{},
			User:        owner,
		},
		{
			Name:        "Trail Running Shoes",
			Description: "Lightweight trail shoes with aggressive grip and rock plate.",
			Price:       89.95,
			Stock:       75,
			Category:    "Clothes/Shoes",
			Images:      []models.ProductImage{},
			User:        owner,
		},
		{
			Name:        "Single-Origin Coffee Beans 1kg",
			Description: "Medium roast arabica, freshly roasted to order.",
			Price:       24.00,
			Stock:       120,
			Category:    "Food",
			Images:      []models.ProductImage{},
			User:        owner,
		},
	}
}
