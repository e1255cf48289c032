package pipeline

import (
	"context"

	"newscrawler/pkg/logger"
	"newscrawler/pkg/render"
	"newscrawler/pkg/sites"
	"newscrawler/pkg/urls"
)

// URLFetcher produces the candidate article URLs of one cycle
type URLFetcher interface {
	Fetch(ctx context.Context) []string
}

// ListingFetcher renders the source's listing page and applies its discovery
// policy. When that yields nothing, the configured fallbacks (a feed, a
// sitemap) are tried in order and their links filtered by the same article
// predicate.
type ListingFetcher struct {
	renderer  render.Renderer
	source    sites.Source
	opts      render.Options
	fallbacks []fallback
	logger    logger.Logger
}

type fallback struct {
	kind    string
	fetcher urls.URLsFetcher
	url     string
}

// NewListingFetcher creates a listing fetcher for source
func NewListingFetcher(renderer render.Renderer, source sites.Source, opts render.Options, log logger.Logger) *ListingFetcher {
	return &ListingFetcher{
		renderer: renderer,
		source:   source,
		opts:     opts,
		logger:   log,
	}
}

// WithFallback appends a discovery fallback. kind names it in logs, e.g. "feed".
func (f *ListingFetcher) WithFallback(kind string, fetcher urls.URLsFetcher, listingURL string) *ListingFetcher {
	if fetcher != nil && listingURL != "" {
		f.fallbacks = append(f.fallbacks, fallback{kind: kind, fetcher: fetcher, url: listingURL})
	}
	return f
}

// Fetch returns the discovered links in discovery order. Failures yield an
// empty result, never an error.
func (f *ListingFetcher) Fetch(ctx context.Context) []string {
	home := f.source.HomeURL()
	links := f.fromListing(ctx, home)
	if len(links) > 0 {
		f.logger.Info("Found article links", logger.Int("count", len(links)))
		return links
	}

	for _, fb := range f.fallbacks {
		links, err := urls.FilteredLinks(ctx, fb.fetcher, fb.url, f.source.IsArticleLink)
		if err != nil {
			f.logger.Warn("Discovery fallback failed",
				logger.String("kind", fb.kind),
				logger.String("url", fb.url),
				logger.Error(err))
			continue
		}
		if len(links) == 0 {
			continue
		}
		f.logger.Info("Found article links",
			logger.String("kind", fb.kind),
			logger.String("url", fb.url),
			logger.Int("count", len(links)))
		return links
	}
	return nil
}

func (f *ListingFetcher) fromListing(ctx context.Context, home string) []string {
	page, err := f.renderer.Render(ctx, home, f.opts)
	if err != nil {
		f.logger.Error("Failed to crawl listing page",
			logger.String("url", home),
			logger.Error(err))
		return nil
	}
	if !render.OK(page, nil) {
		f.logger.Error("Failed to crawl listing page",
			logger.String("url", home),
			logger.String("reason", render.Reason(page)))
		return nil
	}

	links := f.source.DiscoverLinks(page)
	if len(links) == 0 {
		f.logger.Warn("Listing page yielded no article links", logger.String("url", home))
	}
	return links
}
