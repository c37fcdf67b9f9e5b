package store

import (
	"context"
	"fmt"
	"time"

	"photo-contest-backend/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Store owns the mongo client and the repositories built on it.
type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Contests *ContestRepository
	Entries  *EntryRepository
	Users    *UserRepository
}

// Connect opens the client described by cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI())
	if cfg.IsAtlas() {
		clientOptions.SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	}

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return New(client, cfg), nil
}

// New wires repositories on an existing client.
func New(client *mongo.Client, cfg config.DatabaseConfig) *Store {
	db := client.Database(cfg.Name)
	return &Store{
		client:   client,
		db:       db,
		Contests: NewContestRepository(db, cfg.CollectionContestsName),
		Entries:  NewEntryRepository(db, cfg.CollectionEntriesName),
		Users:    NewUserRepository(db, cfg.CollectionUserName),
	}
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect mongodb: %w", err)
	}
	return nil
}
