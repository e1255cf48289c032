package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned for an unsupported archive backend name
var ErrUnknownBackend = errors.New("unknown archive backend")

// Archive backends
const (
	BackendNone     = "none"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

// ArchiveConfig selects and configures the archive backend
type ArchiveConfig struct {
	Backend  string
	Table    string
	Mongo    MongoConfig
	Postgres PostgresConfig
	Supabase SupabaseConfig
}

// Open connects the configured backend. It returns a nil store for BackendNone.
func Open(ctx context.Context, cfg ArchiveConfig) (ArticleStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendNone:
		return nil, nil

	case BackendMongo:
		client, err := NewClient(cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := client.Connect(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, fmt.Errorf("ping mongo: %w", err)
		}
		return client, nil

	case BackendPostgres:
		client := NewPostgresClient(cfg.Postgres)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		store := NewSQLArticles(client, cfg.Table)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = client.Close()
			return nil, err
		}
		return store, nil

	case BackendSupabase:
		scfg := cfg.Supabase
		if scfg.Table == "" {
			scfg.Table = cfg.Table
		}
		client := NewSupabaseClient(scfg)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		if client.HasDirectDB() {
			if err := NewSQLArticles(client, scfg.Table).EnsureSchema(ctx); err != nil {
				_ = client.Close()
				return nil, err
			}
		}
		return client.Store(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
