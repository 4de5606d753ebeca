package controllers

import (
	"net/http"

	"github.com/storefront/backend/app/services"
	"github.com/storefront/backend/pkg/response"
)

type ReviewController struct {
	reviews *services.ReviewService
}

func NewReviewController(reviews *services.ReviewService) *ReviewController {
	return &ReviewController{reviews: reviews}
}

// Create handles POST /products/{productId}/reviews.
func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	productID, err := objectIDParam(r, "productId")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	var in services.ReviewInput
	if !bindBody(w, r, &in) {
		return
	}
	rev, err := c.reviews.Create(r.Context(), p, productID, in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Created(w, rev)
}

// ListByProduct handles GET /products/{productId}/reviews.
func (c *ReviewController) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := objectIDParam(r, "productId")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	reviews, err := c.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.List(w, reviews, len(reviews))
}

// My handles GET /reviews/my-reviews.
func (c *ReviewController) My(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	reviews, err := c.reviews.MyReviews(r.Context(), p.ID)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.List(w, reviews, len(reviews))
}

// Get handles GET /reviews/{id}.
func (c *ReviewController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	rev, err := c.reviews.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Success(w, rev)
}

// Update handles PUT /reviews/{id}.
func (c *ReviewController) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	var in services.ReviewInput
	if !bindBody(w, r, &in) {
		return
	}
	rev, err := c.reviews.Update(r.Context(), p, id, in)
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	response.SuccessMessage(w, "Review updated", rev)
}

// Delete handles DELETE /reviews/{id}.
func (c *ReviewController) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.FromError(w, r, err)
		return
	}
	if err := c.reviews.Delete(r.Context(), p, id); err != nil {
		response.FromError(w, r, err)
		return
	}
	response.Message(w, "Review deleted")
}
