package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/dukaan/app/models"
)

// CartRepository handles the carts collection. All writes are guarded by
// the cart's version field: the update filter matches the version that
// was read, and a miss surfaces as ErrVersionConflict so the service
// layer can re-read and retry.
type CartRepository struct {
	col *mongo.Collection
}

func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{col: db.Collection("carts")}
}

// FindByUser returns the user's cart, or ErrNotFound when none exists yet
// (carts are created lazily on first add).
func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Cart{}, ErrNotFound
	}
	return cart, err
}

// Create inserts a fresh cart for the user at version 1. The unique
// index on user_id turns a racing double-create into ErrDuplicate.
func (r *CartRepository) Create(ctx context.Context, cart *models.Cart) error {
	now := time.Now().UTC()
	cart.Version = 1
	cart.CreatedAt = now
	cart.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, cart)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	cart.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// Save writes the cart's items with a compare-and-swap on the version
// the caller read. On success the in-memory version is bumped to match
// the stored document.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": cart.ID, "version": cart.Version},
		bson.M{
			"$set": bson.M{"items": cart.Items, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	cart.Version++
	return nil
}

// Clear empties the cart identified by (id, version) with the same CAS
// guard as Save. Used by order placement so a cart that changed between
// the order snapshot and the clear is never wiped blindly.
func (r *CartRepository) Clear(ctx context.Context, id primitive.ObjectID, version int64) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "version": version},
		bson.M{
			"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	return nil
}

// PurgeStale deletes carts untouched since the cutoff. Returns the
// number removed.
func (r *CartRepository) PurgeStale(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
