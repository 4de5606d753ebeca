package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/pkg/database"
	"github.com/storefront/backend/pkg/metrics"
)

// CartRepository persists carts, one document per user.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository() *CartRepository {
	return &CartRepository{col: database.Collection(database.ColCarts)}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	defer metrics.ObserveMongoOp(database.ColCarts, "findOne", time.Now())

	var c models.Cart
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepository) Create(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveMongoOp(database.ColCarts, "insert", time.Now())

	now := time.Now()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Save writes back a cart that was previously loaded. Totals are expected to
// be recalculated by the caller before saving.
func (r *CartRepository) Save(ctx context.Context, c *models.Cart) error {
	defer metrics.ObserveMongoOp(database.ColCarts, "replaceOne", time.Now())

	c.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
