// Package services holds the business workflows. Services depend on the
// small repository interfaces below rather than the concrete mongo
// repositories, so tests can drive them with in-memory fakes.
package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
}

type ProductRepo interface {
	Create(ctx context.Context, p *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DecrementStock(ctx context.Context, id primitive.ObjectID, qty int) error
	RestoreStock(ctx context.Context, id primitive.ObjectID, qty int) error
	UpdateRating(ctx context.Context, id primitive.ObjectID, summary models.RatingSummary) error
}

type CartRepo interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, c *models.Cart) error
	Save(ctx context.Context, c *models.Cart) error
}

type OrderRepo interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	Update(ctx context.Context, o *models.Order) error
}

type ReviewRepo interface {
	Create(ctx context.Context, rev *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Review, error)
	Update(ctx context.Context, rev *models.Review) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Aggregate(ctx context.Context, productID primitive.ObjectID) (models.RatingSummary, error)
}

// Notifier delivers transactional email. All methods except PasswordReset
// are best-effort and asynchronous: they never block the calling workflow
// and never return an error, because the primary write has already
// committed by the time a notification fires. PasswordReset is synchronous
// so that a reset token is never left stored when its email could not be
// delivered.
type Notifier interface {
	Welcome(user models.User)
	PasswordReset(user models.User, resetURL string) error
	PasswordChanged(user models.User)
	OrderConfirmation(user models.User, order models.Order)
	OrderStatusUpdate(user models.User, order models.Order)
}

// round2 rounds to two decimal places, used for the money fields.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// timeNow is swapped out by tests that need a fixed clock.
var timeNow = time.Now
