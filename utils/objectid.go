package utils

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StringToObjectId parses a hex id taken from a route parameter.
func StringToObjectId(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id %q: %w", id, err)
	}
	return objectID, nil
}
