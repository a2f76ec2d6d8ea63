package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/dukaan/app/models"
)

// ReviewRepository handles the reviews collection.
type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("reviews")}
}

// Create inserts a review. ErrDuplicate means the user already reviewed
// this product (unique index on user_id+product_id).
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	review.CreatedAt = time.Now().UTC()

	res, err := r.col.InsertOne(ctx, review)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	review.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	var review models.Review
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Review{}, ErrNotFound
	}
	return review, err
}

// FindByProduct returns all reviews for a product, newest first.
func (r *ReviewRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.col.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AverageRating computes the mean rating for a product (0 when there are
// no reviews).
func (r *ReviewRepository) AverageRating(ctx context.Context, productID primitive.ObjectID) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"product_id": productID}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "avg": bson.M{"$avg": "$rating"}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var result []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Avg, nil
}
