package contest

import (
	"context"

	"photo-contest-backend/live"
	"photo-contest-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the contest persistence the handlers need.
type Store interface {
	Insert(ctx context.Context, contest bson.M) (*models.InsertResult, error)
	List(ctx context.Context, skip, limit int64) ([]bson.M, error)
	Count(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (bson.M, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error)
}

type Publisher interface {
	Publish(event live.Event)
}

// PaginatedContestResponse is returned by GET /contests
type PaginatedContestResponse struct {
	Count  int64    `json:"count"`
	Result []bson.M `json:"result"`
}
