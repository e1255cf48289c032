// Package delivery posts extracted articles to the ingestion API.
package delivery

import (
	"context"
	"io"

	"newscrawler/pkg/db"
	"newscrawler/pkg/domain"
	"newscrawler/pkg/httpclient"
	"newscrawler/pkg/logger"
)

// titleLogLimit bounds how much of a title is logged on success
const titleLogLimit = 50

// Deliverer sends one record downstream. It never returns an error: any
// failure is logged and reported as false.
type Deliverer interface {
	Deliver(ctx context.Context, rec domain.ArticleRecord) bool
}

// Client posts records as JSON to a single endpoint
type Client struct {
	http     *httpclient.HTTPClient
	endpoint string
	logger   logger.Logger
}

// NewClient creates a delivery client for endpoint
func NewClient(http *httpclient.HTTPClient, endpoint string, log logger.Logger) *Client {
	return &Client{http: http, endpoint: endpoint, logger: log}
}

// Deliver posts rec and reports whether the API answered with a 2xx status
func (c *Client) Deliver(ctx context.Context, rec domain.ArticleRecord) bool {
	resp, err := c.http.PostJSON(ctx, c.endpoint, rec)
	if err != nil {
		c.logger.Error("API error",
			logger.String("article_url", rec.ArticleURL),
			logger.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("API error",
			logger.String("article_url", rec.ArticleURL),
			logger.Int("status_code", resp.StatusCode))
		return false
	}

	c.logger.Info("Sent: "+truncate(rec.Title, titleLogLimit)+"...",
		logger.String("article_url", rec.ArticleURL))
	return true
}

// Archiving copies every successfully delivered record to a store. Archive
// failures are logged and never change the delivery result.
type Archiving struct {
	next   Deliverer
	store  db.ArticleStore
	logger logger.Logger
}

// WithArchive wraps next. A nil store returns next unchanged.
func WithArchive(next Deliverer, store db.ArticleStore, log logger.Logger) Deliverer {
	if store == nil {
		return next
	}
	return &Archiving{next: next, store: store, logger: log}
}

// Deliver forwards to the wrapped deliverer and archives on success
func (a *Archiving) Deliver(ctx context.Context, rec domain.ArticleRecord) bool {
	if !a.next.Deliver(ctx, rec) {
		return false
	}
	if err := a.store.SaveArticle(ctx, &rec); err != nil {
		a.logger.Warn("Failed to archive article",
			logger.String("article_url", rec.ArticleURL),
			logger.Error(err))
	}
	return true
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
