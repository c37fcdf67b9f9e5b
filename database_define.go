package main

import (
	"context"

	"photo-contest-backend/config"
	"photo-contest-backend/store"

	"github.com/rs/zerolog/log"
)

// openStore connects to the configured MongoDB deployment.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	log.Info().
		Bool("atlas", cfg.Database.IsAtlas()).
		Str("database", cfg.GetDatabaseName()).
		Msg("Connecting to MongoDB")

	db, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	log.Info().Msg("Connected to MongoDB!")
	return db, nil
}

// closeStore disconnects the client, logging instead of failing.
func closeStore(db *store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := db.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close MongoDB connection")
		return
	}
	log.Info().Msg("MongoDB connection closed")
}
