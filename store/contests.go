package store

import (
	"context"
	"errors"
	"fmt"

	"photo-contest-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContestRepository handles the contest collection. Contests are free-form
// documents.
type ContestRepository struct {
	collection *mongo.Collection
}

func NewContestRepository(db *mongo.Database, name string) *ContestRepository {
	return &ContestRepository{collection: db.Collection(name)}
}

// Insert stores a contest document.
func (r *ContestRepository) Insert(ctx context.Context, contest bson.M) (*models.InsertResult, error) {
	result, err := r.collection.InsertOne(ctx, contest)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contest: %w", err)
	}
	return models.FromInsertOne(result), nil
}

// List returns contests in natural order. A zero limit means no limit.
func (r *ContestRepository) List(ctx context.Context, skip, limit int64) ([]bson.M, error) {
	findOptions := options.Find()
	if skip > 0 {
		findOptions.SetSkip(skip)
	}
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find contests: %w", err)
	}
	defer cursor.Close(ctx)

	contests := make([]bson.M, 0)
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, fmt.Errorf("failed to decode contests: %w", err)
	}
	return contests, nil
}

// Count returns the collection's estimated document count.
func (r *ContestRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count contests: %w", err)
	}
	return count, nil
}

// FindByID returns the contest or nil when none matches.
func (r *ContestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	var contest bson.M
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contest: %w", err)
	}
	return contest, nil
}

// Delete removes one contest. Its entries are left untouched.
func (r *ContestRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeleteResult, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to delete contest: %w", err)
	}
	return models.FromDelete(result), nil
}
