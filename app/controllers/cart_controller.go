package controllers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/services"
	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/response"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// Get handles GET /cart.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	cart, err := c.carts.Get(r.Context(), p.ID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, cart)
}

// Add handles POST /cart.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var in services.AddToCartInput
	if !bindBody(w, r, &in) {
		return
	}
	productID, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		response.FromError(w, r, apperr.New(apperr.InvalidInput, "Invalid productId %q", in.ProductID))
		return
	}
	cart, err := c.carts.Add(r.Context(), p.ID, productID, in.Quantity)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Item added to cart", cart)
}

// UpdateItem handles PUT /cart/{itemId}.
func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	itemID, err := objectIDParam(r, "itemId")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	var in services.UpdateCartItemInput
	if !bindBody(w, r, &in) {
		return
	}
	cart, err := c.carts.UpdateItem(r.Context(), p.ID, itemID, in.Quantity)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Cart updated", cart)
}

// RemoveItem handles DELETE /cart/{itemId}.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	itemID, err := objectIDParam(r, "itemId")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	cart, err := c.carts.RemoveItem(r.Context(), p.ID, itemID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Item removed from cart", cart)
}

// Clear handles DELETE /cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	cart, err := c.carts.Clear(r.Context(), p.ID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Cart cleared", cart)
}
