package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/repositories"
	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/authz"
	"github.com/storefront/backend/pkg/logger"
)

// ReviewService manages reviews and keeps the owning product's rating
// summary in sync. The recomputation is an explicit call after each write,
// a full re-aggregation over the product's current reviews.
type ReviewService struct {
	reviews  ReviewRepo
	products ProductRepo
}

func NewReviewService(reviews ReviewRepo, products ProductRepo) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

type ReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required,max=500"`
}

// Create adds a review for a product. One review per (user, product);
// a second attempt fails with Conflict.
func (s *ReviewService) Create(ctx context.Context, principal authz.Principal, productID primitive.ObjectID, in ReviewInput) (*models.Review, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Product not found")
		}
		return nil, err
	}

	rev := &models.Review{
		Rating:  in.Rating,
		Comment: in.Comment,
		User:    principal.ID,
		Product: productID,
	}
	if err := s.reviews.Create(ctx, rev); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.New(apperr.Conflict, "You have already reviewed this product")
		}
		return nil, err
	}

	s.recomputeRating(ctx, productID)
	return rev, nil
}

// ListByProduct returns a product's reviews, newest first.
func (s *ReviewService) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Product not found")
		}
		return nil, err
	}
	return s.reviews.FindByProduct(ctx, productID)
}

// Get returns one review by id.
func (s *ReviewService) Get(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	rev, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.New(apperr.NotFound, "Review not found")
		}
		return nil, err
	}
	return rev, nil
}

// MyReviews returns every review the acting user has written.
func (s *ReviewService) MyReviews(ctx context.Context, userID primitive.ObjectID) ([]models.Review, error) {
	return s.reviews.FindByUser(ctx, userID)
}

// Update rewrites a review's rating and comment. Owner-or-admin.
func (s *ReviewService) Update(ctx context.Context, principal authz.Principal, id primitive.ObjectID, in ReviewInput) (*models.Review, error) {
	rev, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanAccess(principal, rev.User, "Not authorized to update this review"); err != nil {
		return nil, err
	}

	rev.Rating = in.Rating
	rev.Comment = in.Comment
	if err := s.reviews.Update(ctx, rev); err != nil {
		return nil, err
	}

	s.recomputeRating(ctx, rev.Product)
	return rev, nil
}

// Delete removes a review. Owner-or-admin. Deleting a product's last review
// resets its rating summary to zero.
func (s *ReviewService) Delete(ctx context.Context, principal authz.Principal, id primitive.ObjectID) error {
	rev, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanAccess(principal, rev.User, "Not authorized to delete this review"); err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	s.recomputeRating(ctx, rev.Product)
	return nil
}

// recomputeRating re-aggregates the product's reviews and writes the
// summary back. Failures are logged, not surfaced: the review write has
// already committed and the summary converges on the next write.
func (s *ReviewService) recomputeRating(ctx context.Context, productID primitive.ObjectID) {
	summary, err := s.reviews.Aggregate(ctx, productID)
	if err != nil {
		logger.L.Error("rating aggregation failed", "product", productID.Hex(), "error", err)
		return
	}
	if err := s.products.UpdateRating(ctx, productID, summary); err != nil {
		logger.L.Error("rating update failed", "product", productID.Hex(), "error", err)
		return
	}
	invalidateProductCache(productID)
}
