package urls

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"newscrawler/pkg/httpclient"
)

// ErrEmptySitemap is returned when a sitemap (or every sitemap of an index) has no entries
var ErrEmptySitemap = errors.New("sitemap contains no entries")

// maxIndexDepth bounds how deep nested sitemap indexes are followed
const maxIndexDepth = 2

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []urlEntry `xml:"url"`
}

type urlEntry struct {
	Location string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
}

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Location string `xml:"loc"`
	} `xml:"sitemap"`
}

// SitemapFetcher reads candidate article URLs from an XML sitemap or sitemap index
type SitemapFetcher struct {
	client *httpclient.HTTPClient
}

// NewSitemapFetcher creates a sitemap fetcher
func NewSitemapFetcher(client *httpclient.HTTPClient) *SitemapFetcher {
	return &SitemapFetcher{client: client}
}

// Fetch returns the sitemap's URLs, most recently modified first. Entries
// without lastmod keep their document order after the dated ones.
func (f *SitemapFetcher) Fetch(ctx context.Context, sitemapURL string) ([]URL, error) {
	entries, err := f.fetch(ctx, sitemapURL, 0)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySitemap, sitemapURL)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastMod > entries[j].LastMod
	})

	out := make([]URL, 0, len(entries))
	for _, e := range entries {
		out = append(out, URL{Location: e.Location})
	}
	return out, nil
}

func (f *SitemapFetcher) fetch(ctx context.Context, sitemapURL string, depth int) ([]urlEntry, error) {
	resp, err := f.client.Get(ctx, sitemapURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sitemap %s: %w", sitemapURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch sitemap %s: unexpected status code: %d", sitemapURL, resp.StatusCode)
	}

	return f.parse(ctx, resp.Body, depth)
}

// parse decodes a urlset, or follows the children of a sitemapindex
func (f *SitemapFetcher) parse(ctx context.Context, r io.Reader, depth int) ([]urlEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read sitemap: %w", err)
	}

	var index sitemapIndex
	if xml.Unmarshal(data, &index) == nil {
		if depth >= maxIndexDepth {
			return nil, nil
		}
		var all []urlEntry
		for _, child := range index.Sitemaps {
			if child.Location == "" {
				continue
			}
			entries, err := f.fetch(ctx, child.Location, depth+1)
			if err != nil {
				// one broken child does not spoil the index
				continue
			}
			all = append(all, entries...)
		}
		return all, nil
	}

	var set urlSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to decode sitemap XML: %w", err)
	}

	entries := make([]urlEntry, 0, len(set.URLs))
	for _, e := range set.URLs {
		if e.Location != "" {
			entries = append(entries, e)
		}
	}
	return entries, nil
}
