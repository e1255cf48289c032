package urls

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"newscrawler/pkg/httpclient"
)

// ErrEmptyFeed is returned when a feed parses but has no usable item links
var ErrEmptyFeed = errors.New("feed contains no item links")

// FeedFetcher reads candidate article URLs from an RSS or Atom feed
type FeedFetcher struct {
	parser *gofeed.Parser
}

// NewFeedFetcher creates a feed fetcher sending the given User-Agent through
// client. A nil client gets one bounded by httpclient.DefaultTimeout.
func NewFeedFetcher(userAgent string, client *http.Client) *FeedFetcher {
	if client == nil {
		client = httpclient.NewClient(httpclient.BrowserClient).Client()
	}
	p := gofeed.NewParser()
	p.Client = client
	if userAgent != "" {
		p.UserAgent = userAgent
	}
	return &FeedFetcher{parser: p}
}

// Fetch downloads and parses the feed, returning its item links in feed order
func (f *FeedFetcher) Fetch(ctx context.Context, feedURL string) ([]URL, error) {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	var out []URL
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		out = append(out, URL{Location: item.Link, Title: item.Title})
	}

	if len(out) == 0 {
		return nil, ErrEmptyFeed
	}
	return out, nil
}
