package main

import (
	"context"
	"fmt"
	"strings"

	"worlds/internal/config"
	"worlds/internal/schema"
	"worlds/internal/store"
	"worlds/internal/store/postgres"
	"worlds/internal/store/sqlite"
)

// openDB picks the backend from the DSN scheme.
func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := cfg.Database.DSN
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"):
		return postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database dsn scheme: %s", dsn)
	}
}

func openRegistry(cfg *config.ProjectConfig) *schema.Registry {
	if cfg.Schemas.Dir != "" {
		return schema.NewRegistry(schema.DirSource(cfg.Schemas.Dir))
	}
	return schema.NewRegistry(nil)
}
