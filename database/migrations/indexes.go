// Package migrations declares the MongoDB indexes the application
// depends on. EnsureIndexes is idempotent and runs at every boot and
// from the db:index CLI command.
package migrations

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSet struct {
	collection string
	indexes    []mongo.IndexModel
}

// all lists every index keyed by collection. Uniqueness constraints the
// repositories rely on (duplicate email, one cart per user, one review
// per user and product) live here.
var all = []indexSet{
	{
		collection: "users",
		indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	},
	{
		collection: "carts",
		indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
	},
	{
		collection: "orders",
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	},
	{
		collection: "products",
		indexes: []mongo.IndexModel{
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "name", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
	},
	{
		collection: "reviews",
		indexes: []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "product_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	},
}

// EnsureIndexes creates every declared index. Existing identical
// indexes are a no-op on the server side.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, set := range all {
		if _, err := db.Collection(set.collection).Indexes().CreateMany(ctx, set.indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", set.collection, err)
		}
	}
	return nil
}
