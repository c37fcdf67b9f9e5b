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

// EntryRepository handles the contest entry (picture) collection.
type EntryRepository struct {
	collection *mongo.Collection
}

func NewEntryRepository(db *mongo.Database, name string) *EntryRepository {
	return &EntryRepository{collection: db.Collection(name)}
}

// Insert stores an entry and sets its ID. A nil vote list is stored as an
// empty array.
func (r *EntryRepository) Insert(ctx context.Context, entry *models.Entry) (*models.InsertResult, error) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Vote == nil {
		entry.Vote = []string{}
	}
	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}
	return models.FromInsertOne(result), nil
}

// ListByContest returns every entry referencing contestID.
func (r *EntryRepository) ListByContest(ctx context.Context, contestID string) ([]models.Entry, error) {
	return r.find(ctx, bson.M{"contestId": contestID})
}

// All returns every entry.
func (r *EntryRepository) All(ctx context.Context) ([]models.Entry, error) {
	return r.find(ctx, bson.M{})
}

func (r *EntryRepository) find(ctx context.Context, filter bson.M) ([]models.Entry, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.Entry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	return entries, nil
}

// FindForUser returns the first entry a user submitted to a contest, or nil.
func (r *EntryRepository) FindForUser(ctx context.Context, contestID, email string) (*models.Entry, error) {
	var entry models.Entry
	err := r.collection.FindOne(ctx, bson.M{"contestId": contestID, "userEmail": email}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	return &entry, nil
}

// PushVote appends email to the entry's vote list. Duplicates are kept, and
// an unknown id upserts a bare entry holding only the vote.
func (r *EntryRepository) PushVote(ctx context.Context, id primitive.ObjectID, email string) (*models.UpdateResult, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"vote": email}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to push vote: %w", err)
	}
	return models.FromUpdate(result), nil
}
