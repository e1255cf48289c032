package db

import (
	"context"
	"database/sql"

	"newscrawler/pkg/domain"
)

// DBProvider is an interface for database clients that provide access to a sql.DB handle.
// This allows both PostgresClient and SupabaseClient to be used interchangeably.
type DBProvider interface {
	DB() *sql.DB
}

// ArticleStore keeps a write-only copy of delivered articles, keyed by article URL.
// It is never read back by the crawler.
type ArticleStore interface {
	SaveArticle(ctx context.Context, rec *domain.ArticleRecord) error
	Close(ctx context.Context) error
}
