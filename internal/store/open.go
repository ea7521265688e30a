package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/docanchor/internal/config"
	"github.com/dgallion1/docanchor/internal/pathstore"
)

// Open builds the backend named by cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory, "":
		return NewMemory(cfg.HighlightTTL), nil
	case config.BackendRedis:
		return NewRedis(ctx, cfg.RedisURL, cfg.HighlightTTL)
	case config.BackendPostgres:
		return NewPostgres(cfg.DatabaseURL, log)
	case config.BackendPathstore:
		return NewPathstore(pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey), cfg.HighlightTTL), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
