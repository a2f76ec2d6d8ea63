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

// OrderRepository handles the orders collection.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{col: db.Collection("orders")}
}

func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, order)
	if err != nil {
		return err
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	return order, err
}

// FindByUser returns all of a user's orders, newest first.
func (r *OrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// FindAll returns every order, newest first.
func (r *OrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *OrderRepository) find(ctx context.Context, query bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus moves the order from one status to another and returns
// the updated document. The filter matches on the expected current
// status; a miss means a concurrent update won and is reported as
// ErrVersionConflict (callers have already established the order
// exists).
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus) (models.Order, error) {
	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var order models.Order
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrVersionConflict
	}
	return order, err
}

// Delete removes an order. Orders are never deleted through the API;
// this exists solely as the compensating action when emptying the cart
// fails after order creation.
func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
