// Package services holds the application's business logic, sitting between
// HTTP controllers and the repositories.
package services

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/keysncaps/keysncaps/app/repositories"
)

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repositories.ErrNotFound
	}
	return oid, nil
}
