// Package sites holds the per-site discovery and extraction policies.
package sites

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"newscrawler/pkg/domain"
	"newscrawler/pkg/render"
)

// ErrUnknownSource is returned for a source name with no registered policy
var ErrUnknownSource = errors.New("unknown source")

// Source is the capability set of one crawled site
type Source interface {
	// Name is the configuration key, e.g. "coin98"
	Name() string
	// Domain is the value written to ArticleRecord.Source
	Domain() string
	HomeURL() string
	// ArticleDelay is the pause between two articles of one cycle
	ArticleDelay() time.Duration
	DiscoverLinks(page *render.Page) []string
	IsArticleLink(url string) bool
	ExtractRecord(articleURL string, page *render.Page, run RunInfo) domain.ArticleRecord
}

// RunInfo identifies the cycle a record was extracted in. CrawledAt is the
// moment the article itself was crawled.
type RunInfo struct {
	ID        string
	CrawledAt time.Time
}

func (r RunInfo) extra() map[string]any {
	return map[string]any{
		"crawled_at": r.CrawledAt.Format(time.RFC3339),
		"run_id":     r.ID,
	}
}

// Settings overrides a source's defaults. Zero values keep the default.
type Settings struct {
	HomeURL      string
	ArticleDelay time.Duration
}

func (s Settings) homeURL(def string) string {
	if s.HomeURL != "" {
		return s.HomeURL
	}
	return def
}

func (s Settings) delay(def time.Duration) time.Duration {
	if s.ArticleDelay > 0 {
		return s.ArticleDelay
	}
	return def
}

var registry = map[string]func(Settings) Source{
	Coin98Name:        func(s Settings) Source { return NewCoin98(s) },
	TapchiBitcoinName: func(s Settings) Source { return NewTapchiBitcoin(s) },
}

// New builds the named source
func New(name string, s Settings) (Source, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return ctor(s), nil
}

// Names lists the registered sources in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
