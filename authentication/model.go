package authentication

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// RoleLookup finds the user document a token's email claim refers to.
type RoleLookup interface {
	FindByEmail(ctx context.Context, email string) (bson.M, error)
}

// Context keys set by RequireAdmin.
const (
	ContextEmail = "email"
	ContextRole  = "role"
)
