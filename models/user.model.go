package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an API caller allowed to create and capture payments
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
	Role     string             `bson:"role" json:"role"` // "user" or "admin"
}
