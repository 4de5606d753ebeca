package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/repositories"
	"github.com/storefront/backend/pkg/apperr"
)

// CartService mutates a single user's cart. Every mutating operation ends
// with RecalculateTotals before persisting, so the derived totals always
// equal the fold over the current items.
type CartService struct {
	carts    CartRepo
	products ProductRepo
}

func NewCartService(carts CartRepo, products ProductRepo) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the user's cart, or an empty-cart value when none exists yet.
// Absence is not an error.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			empty := models.EmptyCart()
			empty.User = userID
			return &empty, nil
		}
		return nil, err
	}
	return c, nil
}

type AddToCartInput struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// Add puts quantity units of a product into the cart, creating the cart
// lazily on first use. If the product is already a line item the quantities
// merge; the stock check always covers the merged total. The unit price is
// captured from the live product at add time and honoured from then on.
func (s *CartService) Add(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Product not found")
		}
		return nil, err
	}

	c, err := s.carts.FindByUser(ctx, userID)
	created := false
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		fresh := models.EmptyCart()
		fresh.User = userID
		c = &fresh
		created = true
	}

	if i := c.ItemIndexByProduct(productID); i >= 0 {
		merged := c.Items[i].Quantity + quantity
		if p.Stock < merged {
			return nil, apperr.New(apperr.InvalidInput,
				"Only %d items available. You have %d in cart.", p.Stock, c.Items[i].Quantity)
		}
		c.Items[i].Quantity = merged
	} else {
		if p.Stock < quantity {
			return nil, apperr.New(apperr.InvalidInput,
				"Only %d items available. Cannot add %d to cart.", p.Stock, quantity)
		}
		c.Items = append(c.Items, models.CartItem{
			ID:       primitive.NewObjectID(),
			Product:  productID,
			Quantity: quantity,
			Price:    p.Price,
		})
	}

	c.RecalculateTotals()
	if created {
		err = s.carts.Create(ctx, c)
	} else {
		err = s.carts.Save(ctx, c)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// UpdateItem sets a line item's quantity, re-checked against live stock.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Cart not found")
		}
		return nil, err
	}

	i := c.ItemIndex(itemID)
	if i < 0 {
		return nil, apperr.New(apperr.NotFound, "Item not found in cart")
	}

	p, err := s.products.FindByID(ctx, c.Items[i].Product)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Product not found")
		}
		return nil, err
	}
	if p.Stock < quantity {
		return nil, apperr.New(apperr.InvalidInput,
			"Only %d items available. Cannot update to %d.", p.Stock, quantity)
	}

	c.Items[i].Quantity = quantity
	c.RecalculateTotals()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem deletes a line item from the cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Cart not found")
		}
		return nil, err
	}

	i := c.ItemIndex(itemID)
	if i < 0 {
		return nil, apperr.New(apperr.NotFound, "Item not found in cart")
	}

	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.RecalculateTotals()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart without deleting the document. Clearing an absent
// cart is a no-op.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	c, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			empty := models.EmptyCart()
			empty.User = userID
			return &empty, nil
		}
		return nil, err
	}

	c.Items = []models.CartItem{}
	c.RecalculateTotals()
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
