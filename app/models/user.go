package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the primary user model.
// Password holds the bcrypt hash and is never serialised.
// RefreshToken holds the encrypted refresh JWT; login overwrites it, so a
// user has at most one valid refresh token at a time.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Password     string             `bson:"password" json:"-"`
	Role         string             `bson:"role" json:"role"`
	RefreshToken string             `bson:"refresh_token,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
