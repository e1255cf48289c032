package sites

import (
	"context"
	"regexp"
	"time"

	"newscrawler/pkg/content"
	"newscrawler/pkg/domain"
	"newscrawler/pkg/filter"
	"newscrawler/pkg/render"
	"newscrawler/pkg/timestamp"
	"newscrawler/pkg/urls"
)

// Coin98Name is the configuration key of coin98.net
const Coin98Name = "coin98"

const (
	coin98Domain       = "coin98.net"
	coin98DefaultHome  = "https://coin98.net/home/moi-nhat"
	coin98DefaultDelay = time.Second
)

var (
	coin98PathDenylist = []string{
		"/learn", "/series", "/report", "/courses", "/signin",
		"/home", "/#", "/about", "/contact", "/privacy",
		"/terms", "/categories", "/tags", "/inside-coin98",
	}

	coin98TitleNoise = []string{"search", "logo", "follow"}

	coin98Branding = regexp.MustCompile(`\s*-\s*Coin98.*$`)

	// site chrome, sharing widgets, edition switchers and footer lines
	coin98SkipPhrases = []string{
		"Language edition", "Search", "logo", "Follow", "Channel logo",
		"AVAILABLE EDITIONS", "Vietnamese", "English", "Coin98 Insights",
		"Published", "Updated", "ago", "min read", "Save", "Copy link",
		"RELEVANT SERIES", "© 2024", "All Rights Reserved", "Powered by",
		"![Vietnamese]", "![English]", "flagcdn.com", "_next/image",
		"thumbnail", "files.amberblocks.com", "Follow us", "Subscribe",
	}

	coin98Images = content.ImagePolicy{
		PreferredHost: "files.amberblocks.com",
		Extensions:    []string{".jpg", ".jpeg", ".png", ".webp"},
		PreferredDeny: []string{"logo", "icon", "avatar", "flag"},
		FallbackDeny:  []string{"logo", "icon", "flag"},
	}
)

// Coin98 discovers articles from the internal links of the listing page and
// extracts them from the derived markdown.
type Coin98 struct {
	homeURL    string
	delay      time.Duration
	filters    []filter.Filter
	normalizer *timestamp.Normalizer
}

// NewCoin98 creates the coin98.net source
func NewCoin98(s Settings) *Coin98 {
	return &Coin98{
		homeURL: s.homeURL(coin98DefaultHome),
		delay:   s.delay(coin98DefaultDelay),
		filters: []filter.Filter{
			filter.NewMinPathLengthFilter(3),
			filter.NewBaseURLFilter(),
			filter.NewPathDenylistFilter(coin98PathDenylist...),
		},
		normalizer: timestamp.NewNormalizer(timestamp.BaseLayouts),
	}
}

func (c *Coin98) Name() string                { return Coin98Name }
func (c *Coin98) Domain() string              { return coin98Domain }
func (c *Coin98) HomeURL() string             { return c.homeURL }
func (c *Coin98) ArticleDelay() time.Duration { return c.delay }

// IsArticleLink accepts paths longer than 3 characters that are not the root
// and contain no denylisted fragment. url may be relative.
func (c *Coin98) IsArticleLink(url string) bool {
	return filter.Keep(context.Background(), url, c.filters...)
}

// DiscoverLinks returns the page's internal article links in first-seen order
func (c *Coin98) DiscoverLinks(page *render.Page) []string {
	return urls.InternalLinks(page, c.IsArticleLink)
}

// ExtractRecord builds the record for one rendered article
func (c *Coin98) ExtractRecord(articleURL string, page *render.Page, run RunInfo) domain.ArticleRecord {
	doc := content.Parse(page.HTML)

	title := content.Title(
		content.HeadingTitle(page.Markdown, coin98TitleNoise),
		content.StripBranding(content.TitleTag(doc), coin98Branding),
		content.FirstHeading(doc),
	)

	dates := content.StructuredDates(doc)
	if dates.CreatedAt == "" {
		dates.CreatedAt = content.TagScanDate(doc, run.CrawledAt)
	}

	return domain.ArticleRecord{
		Title:            title,
		Content:          content.CleanLines(page.Markdown, coin98SkipPhrases),
		Source:           coin98Domain,
		ExtraInformation: run.extra(),
		ArticleURL:       articleURL,
		ImageURL:         coin98Images.Select(page.Images),
		CreatedAt:        c.normalizer.Normalize(dates.CreatedAt),
		UpdatedAt:        c.normalizer.Normalize(dates.UpdatedAt),
	}
}
