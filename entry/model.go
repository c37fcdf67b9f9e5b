package entry

import (
	"context"

	"photo-contest-backend/live"
	"photo-contest-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the entry persistence the handlers need.
type Store interface {
	Insert(ctx context.Context, entry *models.Entry) (*models.InsertResult, error)
	ListByContest(ctx context.Context, contestID string) ([]models.Entry, error)
	All(ctx context.Context) ([]models.Entry, error)
	FindForUser(ctx context.Context, contestID, email string) (*models.Entry, error)
	PushVote(ctx context.Context, id primitive.ObjectID, email string) (*models.UpdateResult, error)
}

type Publisher interface {
	Publish(event live.Event)
}

type VoteRequest struct {
	Email string `json:"email" binding:"required"`
}
