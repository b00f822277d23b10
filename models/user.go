package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name             string               `bson:"name" json:"name"`
	Email            string               `bson:"email" json:"email"`
	Password         string               `bson:"password" json:"-"` // bcrypt hash
	Role             string               `bson:"role" json:"role"`
	RegisteredEvents []primitive.ObjectID `bson:"registeredEvents" json:"registeredEvents"`
}

// UserRef is the projection used when resolving organizer and
// registrant references on an event (name/email only, never the hash).
type UserRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}
