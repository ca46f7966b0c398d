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

// UserRepository handles database operations for User.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository() *UserRepository {
	return &UserRepository{col: database.DB().Collection("users")}
}

// FindByEmail looks up a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	return user, mapErr(err)
}

// FindByID looks up a user by its hex object id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	return user, mapErr(err)
}

// Exists reports whether a user with the given id exists. Used by the auth
// middleware to reject tokens for deleted accounts.
func (r *UserRepository) Exists(ctx context.Context, id string) bool {
	_, err := r.FindByID(ctx, id)
	return err == nil
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	_, err := r.col.InsertOne(ctx, user)
	return err
}

// SetRefreshToken stores the (encrypted) refresh token on the user record,
// replacing any previous value. Pass "" to clear it (logout).
func (r *UserRepository) SetRefreshToken(ctx context.Context, id string, token string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"refresh_token": token, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns users sorted by creation time, newest first.
func (r *UserRepository) All(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.col.Find(ctx, bson.M{}, pageOpts(page, limit, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
