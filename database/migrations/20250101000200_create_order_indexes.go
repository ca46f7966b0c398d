package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/keysncaps/keysncaps/pkg/migration"
)

func init() {
	migration.Register("20250101000200_create_order_indexes", &createOrderIndexes{})
}

type createOrderIndexes struct{}

// The order number field deliberately has no unique index: numbers come
// from a count-then-insert sequence that can race under concurrent
// checkouts, and a unique index would turn that race into checkout
// failures instead of duplicate numbers.
func (m *createOrderIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("orders").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("status_created"),
		},
	})
	return err
}

func (m *createOrderIndexes) Down(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("orders").Indexes().DropOne(ctx, "user_created"); err != nil {
		return err
	}
	_, err := db.Collection("orders").Indexes().DropOne(ctx, "status_created")
	return err
}
