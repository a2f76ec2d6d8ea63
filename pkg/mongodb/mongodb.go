// Package mongodb owns the MongoDB client for dukaan.
//
// The client is constructed once at boot and the *mongo.Database handle
// is passed down into the repositories; there is no package-level
// connection singleton.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/dukaan/config"
)

// Connect dials MongoDB and verifies the connection with a ping.
// The returned client must be closed with Disconnect on shutdown.
func Connect(ctx context.Context) (*mongo.Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	return client, nil
}

// Database returns the configured application database handle.
func Database(client *mongo.Client) *mongo.Database {
	return client.Database(config.MongoDatabase())
}

// Disconnect closes the client with a bounded deadline.
func Disconnect(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
