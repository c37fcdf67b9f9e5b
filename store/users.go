package store

import (
	"context"
	"errors"
	"fmt"

	"photo-contest-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles the users collection. Users are free-form documents
// keyed by email for upserts.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database, name string) *UserRepository {
	return &UserRepository{collection: db.Collection(name)}
}

// Insert stores a user document as given.
func (r *UserRepository) Insert(ctx context.Context, user bson.M) (*models.InsertResult, error) {
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return models.FromInsertOne(result), nil
}

// Replace swaps the whole document of the user with email for user, creating
// it when absent. Any _id in user is dropped.
func (r *UserRepository) Replace(ctx context.Context, email string, user bson.M) (*models.UpdateResult, error) {
	replacement := make(bson.M, len(user))
	for k, v := range user {
		if k == "_id" {
			continue
		}
		replacement[k] = v
	}

	result, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"email": email},
		replacement,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to replace user: %w", err)
	}
	return models.FromUpdate(result), nil
}

// PromoteAdmin sets role admin on the user with email, creating it when
// absent. Other fields are left as they are.
func (r *UserRepository) PromoteAdmin(ctx context.Context, email string) (*models.UpdateResult, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"email": email, "role": models.RoleAdmin}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	return models.FromUpdate(result), nil
}

// All returns every user.
func (r *UserRepository) All(ctx context.Context) ([]bson.M, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]bson.M, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// FindByEmail returns the user or nil when none matches.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (bson.M, error) {
	var user bson.M
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
