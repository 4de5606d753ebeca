package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/pkg/database"
	"github.com/storefront/backend/pkg/metrics"
)

// ReviewRepository persists product reviews. A unique index on
// (product, user) keeps each reviewer to one review per product.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{col: database.Collection(database.ColReviews)}
}

// Create inserts a review. Returns ErrDuplicate when the user has already
// reviewed the product.
func (r *ReviewRepository) Create(ctx context.Context, rev *models.Review) error {
	defer metrics.ObserveMongoOp(database.ColReviews, "insert", time.Now())

	now := time.Now()
	rev.ID = primitive.NewObjectID()
	rev.CreatedAt = now
	rev.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, rev); err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	defer metrics.ObserveMongoOp(database.ColReviews, "findOne", time.Now())

	var rev models.Review
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// FindByProduct returns a product's reviews, newest first.
func (r *ReviewRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	defer metrics.ObserveMongoOp(database.ColReviews, "find", time.Now())

	cur, err := r.col.Find(ctx, bson.M{"product": productID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByUser returns every review the user has written, newest first.
func (r *ReviewRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Review, error) {
	defer metrics.ObserveMongoOp(database.ColReviews, "find", time.Now())

	cur, err := r.col.Find(ctx, bson.M{"user": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) Update(ctx context.Context, rev *models.Review) error {
	defer metrics.ObserveMongoOp(database.ColReviews, "replaceOne", time.Now())

	rev.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": rev.ID}, rev)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveMongoOp(database.ColReviews, "deleteOne", time.Now())

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Aggregate recomputes the average rating and review count for a product.
// Returns a zero summary when the product has no reviews.
func (r *ReviewRepository) Aggregate(ctx context.Context, productID primitive.ObjectID) (models.RatingSummary, error) {
	defer metrics.ObserveMongoOp(database.ColReviews, "aggregate", time.Now())

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"product": productID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     "$product",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return models.RatingSummary{}, err
	}
	var rows []struct {
		Average float64 `bson:"average"`
		Count   int     `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return models.RatingSummary{}, err
	}
	if len(rows) == 0 {
		return models.RatingSummary{}, nil
	}
	return models.RatingSummary{
		Average: models.RoundRating(rows[0].Average),
		Count:   rows[0].Count,
	}, nil
}
