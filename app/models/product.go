package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories a product may belong to.
var Categories = []string{
	"Electronics",
	"Cameras",
	"Laptops",
	"Accessories",
	"Headphones",
	"Food",
	"Books",
	"Clothes/Shoes",
	"Beauty/Health",
	"Sports",
	"Outdoor",
	"Home",
}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ProductImage is one stored image reference. PublicID is the storage key,
// kept so the image can be deleted from the object store later.
type ProductImage struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
}

// Product is the catalogue document. Stock is never negative: the only writer
// that decrements it is the conditional update in the product repository.
// Ratings and NumReviews are derived — recomputed by the review workflow
// after every review write, never set directly.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Stock       int                `bson:"stock" json:"stock"`
	Category    string             `bson:"category" json:"category"`
	Images      []ProductImage     `bson:"images" json:"images"`
	Ratings     float64            `bson:"ratings" json:"ratings"`
	NumReviews  int                `bson:"numOfReviews" json:"numOfReviews"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImageURL returns the lead image, or the placeholder when the product
// has none. Order snapshots use this.
func (p Product) FirstImageURL() string {
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return DefaultAvatar
}
