// Package migrations holds the MongoDB index migrations. Each file
// registers itself via init(); the CLI imports this package blank so the
// registrations run.
package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/keysncaps/keysncaps/pkg/migration"
)

func init() {
	migration.Register("20250101000000_create_user_indexes", &createUserIndexes{})
}

type createUserIndexes struct{}

func (m *createUserIndexes) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_email"),
	})
	return err
}

func (m *createUserIndexes) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().DropOne(ctx, "uniq_email")
	return err
}
