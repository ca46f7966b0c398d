package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/keysncaps/keysncaps/pkg/migration"
)

func init() {
	migration.Register("20250101000100_create_product_indexes", &createProductIndexes{})
}

type createProductIndexes struct{}

func (m *createProductIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("products").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_sku"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("category_active"),
		},
	})
	return err
}

func (m *createProductIndexes) Down(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection("products").Indexes().DropOne(ctx, "uniq_sku"); err != nil {
		return err
	}
	_, err := db.Collection("products").Indexes().DropOne(ctx, "category_active")
	return err
}
