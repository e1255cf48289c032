package urls

import "context"

// URL represents a candidate article URL found by a discoverer
type URL struct {
	Location string // URL of the article
	Title    string // Title of the article (optional)
}

// URLsFetcher fetches candidate URLs from a remote listing such as a feed
type URLsFetcher interface {
	Fetch(ctx context.Context, listingURL string) ([]URL, error)
}

// KeepFunc decides whether a discovered URL is an article link
type KeepFunc func(url string) bool

// Locations returns the Location of every URL, in order
func Locations(urls []URL) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		out = append(out, u.Location)
	}
	return out
}

// dedupe appends s to out unless seen, preserving first-seen order
func dedupe(seen map[string]bool, out []string, s string) []string {
	if seen[s] {
		return out
	}
	seen[s] = true
	return append(out, s)
}

// FilteredLinks fetches listingURL with fetcher and returns the links accepted by keep, without duplicates
func FilteredLinks(ctx context.Context, fetcher URLsFetcher, listingURL string, keep KeepFunc) ([]string, error) {
	items, err := fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	for _, loc := range Locations(items) {
		if keep(loc) {
			out = dedupe(seen, out, loc)
		}
	}
	return out, nil
}
