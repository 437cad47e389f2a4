// Package bootstrap opens the backends shared by the server and the CLI
package bootstrap

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/careerhub-api/internal/blob"
	"github.com/yourusername/careerhub-api/internal/config"
	"github.com/yourusername/careerhub-api/internal/store"
)

// OpenStore builds the configured document store backend
func OpenStore(ctx context.Context, cfg *config.Config, app *firebase.App) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating firestore client: %w", err)
		}
		return store.NewFirestoreStore(client), nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pinging database: %w", err)
		}
		log.Info().Msg("Database connected")
		return store.NewPostgresStore(ctx, pool)

	default:
		log.Warn().Msg("Using in-memory document store; data is lost on restart")
		return store.NewMemoryStore(), nil
	}
}

// OpenBlobs uses the Firebase storage bucket when one is configured
func OpenBlobs(ctx context.Context, cfg *config.Config, app *firebase.App) (blob.Store, error) {
	if cfg.StorageBucket == "" {
		log.Warn().Msg("STORAGE_BUCKET not set; company documents are kept in memory")
		return blob.NewMemoryStore(), nil
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	bucket, err := client.Bucket(cfg.StorageBucket)
	if err != nil {
		return nil, fmt.Errorf("opening bucket: %w", err)
	}
	return blob.NewGCSStore(bucket, cfg.StorageBucket), nil
}
