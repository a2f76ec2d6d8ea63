// Package tasks registers the periodic maintenance jobs: reconciling
// product mean ratings against the reviews collection and purging
// abandoned carts.
package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/dukaan/app/repositories"
	"github.com/shashiranjanraj/dukaan/pkg/collection"
	"github.com/shashiranjanraj/dukaan/pkg/logger"
	"github.com/shashiranjanraj/dukaan/pkg/schedule"
	"github.com/shashiranjanraj/dukaan/pkg/workerpool"
)

const (
	staleCartAge  = 30 * 24 * time.Hour
	ratingWorkers = 8
	ratingBatch   = 100
	taskTimeout   = 10 * time.Minute
)

// RegisterScheduled wires the maintenance tasks onto the scheduler.
// Call once at boot, before schedule.Start.
func RegisterScheduled(db *mongo.Database) {
	products := repositories.NewProductRepository(db)
	carts := repositories.NewCartRepository(db)
	reviews := repositories.NewReviewRepository(db)

	schedule.Daily().
		Name("reconcile-ratings").
		WithoutOverlapping().
		Run(func() { reconcileRatings(db, products, reviews) })

	schedule.Hourly().
		Name("purge-stale-carts").
		WithoutOverlapping().
		Run(func() { purgeStaleCarts(carts) })
}

// reconcileRatings recomputes every product's mean rating from the
// reviews collection. Ratings normally update inline when a review is
// written; this repairs drift from partial failures.
func reconcileRatings(db *mongo.Database, products *repositories.ProductRepository, reviews *repositories.ReviewRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	ids, err := products.AllIDs(ctx)
	if err != nil {
		logger.Error("ratings reconcile: list products", "error", err)
		return
	}

	pool := workerpool.New(ratingWorkers)
	defer pool.Shutdown()

	col := db.Collection("products")
	for _, batch := range collection.Chunk(ids, ratingBatch) {
		for _, id := range batch {
			id := id
			err := pool.SubmitWait(func() {
				avg, err := reviews.AverageRating(ctx, id)
				if err != nil {
					logger.Error("ratings reconcile: aggregate", "product_id", id.Hex(), "error", err)
					return
				}
				_, err = col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"ratings": avg}})
				if err != nil {
					logger.Error("ratings reconcile: update", "product_id", id.Hex(), "error", err)
				}
			})
			if err != nil {
				return
			}
		}
	}
	logger.Info("ratings reconciled", "products", len(ids))
}

func purgeStaleCarts(carts *repositories.CartRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	n, err := carts.PurgeStale(ctx, time.Now().UTC().Add(-staleCartAge))
	if err != nil {
		logger.Error("stale cart purge failed", "error", err)
		return
	}
	if n > 0 {
		logger.Info("stale carts purged", "count", n)
	}
}
