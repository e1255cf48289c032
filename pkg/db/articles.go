package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"newscrawler/pkg/domain"
)

// DefaultArticlesTable is the archive table used by the SQL backends
const DefaultArticlesTable = "news_articles"

// SQLArticles archives records into a Postgres table through any DBProvider
type SQLArticles struct {
	provider DBProvider
	table    string
}

// NewSQLArticles creates a SQL archive writing to table (DefaultArticlesTable when empty)
func NewSQLArticles(provider DBProvider, table string) *SQLArticles {
	if table == "" {
		table = DefaultArticlesTable
	}
	return &SQLArticles{provider: provider, table: table}
}

// EnsureSchema creates the archive table if it does not exist
func (s *SQLArticles) EnsureSchema(ctx context.Context) error {
	db := s.provider.DB()
	if db == nil {
		return fmt.Errorf("database not connected")
	}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	article_url TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	source TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	extra_information JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at BIGINT NOT NULL DEFAULT 0,
	updated_at BIGINT NOT NULL DEFAULT 0,
	archived_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table)

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// SaveArticle inserts the record or replaces the row with the same article URL
func (s *SQLArticles) SaveArticle(ctx context.Context, rec *domain.ArticleRecord) error {
	db := s.provider.DB()
	if db == nil {
		return fmt.Errorf("database not connected")
	}

	extra, err := json.Marshal(rec.ExtraInformation)
	if err != nil {
		return fmt.Errorf("encode extra_information: %w", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s
	(article_url, title, content, source, image_url, extra_information, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (article_url) DO UPDATE SET
	title = EXCLUDED.title,
	content = EXCLUDED.content,
	source = EXCLUDED.source,
	image_url = EXCLUDED.image_url,
	extra_information = EXCLUDED.extra_information,
	created_at = EXCLUDED.created_at,
	updated_at = EXCLUDED.updated_at,
	archived_at = now()`, s.table)

	_, err = db.ExecContext(ctx, query,
		rec.ArticleURL, rec.Title, rec.Content, rec.Source, rec.ImageURL,
		string(extra), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert article %s: %w", rec.ArticleURL, err)
	}
	return nil
}

// Close closes the underlying handle when the provider owns one
func (s *SQLArticles) Close(ctx context.Context) error {
	if c, ok := s.provider.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

type sqlHandle struct{ db *sql.DB }

func (h sqlHandle) DB() *sql.DB { return h.db }

// WrapDB adapts a bare handle to DBProvider
func WrapDB(db *sql.DB) DBProvider {
	return sqlHandle{db: db}
}
