package bootstrap

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/ledger-engine/internal/config"
	"github.com/GregMSThompson/ledger-engine/internal/store"
)

// InitStore opens the backend named by cfg.Store. Errors leave the result
// nil so Close never sees a half-built store.
func InitStore(ctx context.Context, cfg *config.Config) (store.LedgerStore, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	case config.StoreSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorePostgres:
		s, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreFirestore:
		client, err := firestore.NewClient(ctx, cfg.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("create firestore client: %w", err)
		}
		return store.NewFirestoreStore(client), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
