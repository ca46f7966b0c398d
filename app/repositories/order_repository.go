package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/pkg/database"
)

// OrderRepository handles database operations for Order.
type OrderRepository struct {
	col *mongo.Collection
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{col: database.DB().Collection("orders")}
}

// NextNumber returns the next sequential order number as count+1.
// Concurrent checkouts can race here and produce duplicate numbers; there is
// no unique index on the field, so duplicates insert without error.
func (r *OrderRepository) NextNumber(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	count, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return count + 1, nil
}

// Create persists a finalized order.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}

	_, err := r.col.InsertOne(ctx, o)
	return err
}

// FindByID looks up an order by its hex object id.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Order{}, ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var order models.Order
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	return order, mapErr(err)
}

// ListByUser returns a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Order, int64, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, ErrNotFound
	}
	return r.list(ctx, bson.M{"user_id": oid}, page, limit)
}

// List returns all orders, optionally filtered by status, newest first.
func (r *OrderRepository) List(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	q := bson.M{}
	if status != "" {
		q["status"] = status
	}
	return r.list(ctx, q, page, limit)
}

func (r *OrderRepository) list(ctx context.Context, q bson.M, page, limit int) ([]models.Order, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.col.Find(ctx, q, pageOpts(page, limit, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// SetStatus writes the order status. The value is not validated against the
// current state; callers assign transition strings directly.
func (r *OrderRepository) SetStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// StalePending returns pending orders older than cutoff. The scheduler uses
// this to sweep checkouts that never completed payment.
func (r *OrderRepository) StalePending(ctx context.Context, cutoff time.Time) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := bson.M{"status": models.OrderPending, "created_at": bson.M{"$lt": cutoff}}
	cursor, err := r.col.Find(ctx, q)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
