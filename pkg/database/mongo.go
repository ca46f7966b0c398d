// Package database manages the shared MongoDB client.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/keysncaps/keysncaps/config"
)

var (
	client *mongo.Client
	db     *mongo.Database
)

const connectTimeout = 10 * time.Second

// Connect opens the MongoDB connection and pings the server.
// Call once at startup; the process should exit when this fails.
func Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(config.MongoURI()).
		SetMaxPoolSize(64)

	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}

	client = c
	db = c.Database(config.MongoDatabase())
	return nil
}

// DB returns the application database. Panics if Connect has not run.
func DB() *mongo.Database {
	if db == nil {
		panic("database: not connected, call database.Connect first")
	}
	return db
}

// Client returns the underlying MongoDB client.
func Client() *mongo.Client {
	if client == nil {
		panic("database: not connected, call database.Connect first")
	}
	return client
}

// Disconnect closes the connection. Used on shutdown and in CLI commands.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
