package users

import (
	"context"

	"photo-contest-backend/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Store is the user persistence the handlers need.
type Store interface {
	Insert(ctx context.Context, user bson.M) (*models.InsertResult, error)
	Replace(ctx context.Context, email string, user bson.M) (*models.UpdateResult, error)
	PromoteAdmin(ctx context.Context, email string) (*models.UpdateResult, error)
	All(ctx context.Context) ([]bson.M, error)
	FindByEmail(ctx context.Context, email string) (bson.M, error)
}

type MakeAdminRequest struct {
	Email string `json:"email" binding:"required"`
}

type AdminResponse struct {
	Admin bool `json:"admin"`
}
