// Package database owns the MongoDB connection and schema-level indexes.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/backend/config"
)

// Collection names.
const (
	ColUsers    = "users"
	ColProducts = "products"
	ColCarts    = "carts"
	ColOrders   = "orders"
	ColReviews  = "reviews"
	ColLogs     = "logs"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Connect opens the client, pings the server, and keeps the database handle.
// Returns an error instead of exiting so the caller can shut down gracefully.
func Connect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDB())
	return nil
}

// Disconnect closes the client. Safe to call when Connect never succeeded.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

// Collection returns a handle for the named collection. Before Connect it
// returns nil, which lets commands that only inspect wiring (route:list)
// construct repositories without a running server.
func Collection(name string) *mongo.Collection {
	if DB == nil {
		return nil
	}
	return DB.Collection(name)
}

// EnsureIndexes creates the uniqueness constraints the data model relies on:
// unique user email, one cart per user, one review per (product, user), and
// a time index on the log sink collection.
func EnsureIndexes(ctx context.Context) error {
	type spec struct {
		col   string
		model mongo.IndexModel
	}

	unique := options.Index().SetUnique(true)

	specs := []spec{
		{ColUsers, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: unique,
		}},
		{ColCarts, mongo.IndexModel{
			Keys:    bson.D{{Key: "user", Value: 1}},
			Options: unique,
		}},
		{ColReviews, mongo.IndexModel{
			Keys:    bson.D{{Key: "product", Value: 1}, {Key: "user", Value: 1}},
			Options: unique,
		}},
		{ColReviews, mongo.IndexModel{
			Keys: bson.D{{Key: "product", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{ColOrders, mongo.IndexModel{
			Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		{ColLogs, mongo.IndexModel{
			Keys: bson.D{{Key: "time", Value: -1}},
		}},
	}

	for _, s := range specs {
		if _, err := Collection(s.col).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("database: index on %s: %w", s.col, err)
		}
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
