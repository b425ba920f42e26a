package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-character hex object id. Every backend uses the same
// id shape so clients cannot tell them apart.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidID reports whether id is a well-formed 24-character hex object id.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
