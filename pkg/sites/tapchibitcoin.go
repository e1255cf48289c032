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

// TapchiBitcoinName is the configuration key of tapchibitcoin.io
const TapchiBitcoinName = "tapchibitcoin"

const (
	tapchiDomain       = "tapchibitcoin.io"
	tapchiDefaultHome  = "https://tapchibitcoin.io/"
	tapchiDefaultDelay = 2 * time.Second

	// latest posts widget on the home page
	tapchiListingSelector = "div.lasted_post div.list_post div.item a[href]"
	tapchiContentSelector = "div.the_content"
	tapchiMetaSelector    = "ul.post_meta"
)

var (
	tapchiPathDenylist = []string{
		"/category", "/tag", "/author", "/page", "/search",
		"/contact", "/about", "/privacy", "/terms", "/sitemap",
		"/wp-admin", "/wp-content", "/wp-includes", "/feed",
		"/comments", "/trackback", "/#", "/login", "/register",
		"/wp-json", "/xmlrpc", ".xml", ".rss",
	}

	tapchiBranding = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*-\s*TapchiBitcoin.*$`),
		regexp.MustCompile(`(?i)\s*\|\s*TapchiBitcoin.*$`),
	}

	tapchiImages = content.ImagePolicy{
		Extensions: []string{".jpg", ".jpeg", ".png", ".webp", ".gif"},
	}
)

// TapchiBitcoin discovers articles from the latest posts widget and takes the
// body from the article content container.
type TapchiBitcoin struct {
	homeURL    string
	delay      time.Duration
	filters    []filter.Filter
	normalizer *timestamp.Normalizer
}

// NewTapchiBitcoin creates the tapchibitcoin.io source
func NewTapchiBitcoin(s Settings) *TapchiBitcoin {
	return &TapchiBitcoin{
		homeURL: s.homeURL(tapchiDefaultHome),
		delay:   s.delay(tapchiDefaultDelay),
		filters: []filter.Filter{
			filter.NewDomainSuffixFilter(tapchiDomain),
			filter.NewPathDenylistFilter(tapchiPathDenylist...),
			filter.NewArticleShapeFilter(".html", 10),
		},
		normalizer: timestamp.NewNormalizer(timestamp.ExtendedLayouts),
	}
}

func (t *TapchiBitcoin) Name() string                { return TapchiBitcoinName }
func (t *TapchiBitcoin) Domain() string              { return tapchiDomain }
func (t *TapchiBitcoin) HomeURL() string             { return t.homeURL }
func (t *TapchiBitcoin) ArticleDelay() time.Duration { return t.delay }

// IsArticleLink accepts absolute tapchibitcoin.io URLs that end in .html or
// are a single slug longer than 10 characters, outside the denylisted paths.
func (t *TapchiBitcoin) IsArticleLink(url string) bool {
	return filter.Keep(context.Background(), url, t.filters...)
}

// DiscoverLinks returns the article links of the latest posts widget in page order
func (t *TapchiBitcoin) DiscoverLinks(page *render.Page) []string {
	if page == nil || !page.Success {
		return nil
	}
	base := page.URL
	if base == "" {
		base = t.homeURL
	}
	return urls.ContainerLinks(page.HTML, base, tapchiListingSelector, t.IsArticleLink)
}

// ExtractRecord builds the record for one rendered article. Content is empty
// when the page has no content container.
func (t *TapchiBitcoin) ExtractRecord(articleURL string, page *render.Page, run RunInfo) domain.ArticleRecord {
	doc := content.Parse(page.HTML)

	title := content.Title(
		content.StripBranding(content.TitleTag(doc), tapchiBranding...),
		content.FirstHeading(doc),
	)
	body, _ := content.ContainerMarkdown(doc, tapchiContentSelector)

	dates := content.MetaListDates(doc, tapchiMetaSelector)
	if dates.CreatedAt == "" {
		dates = content.StructuredDates(doc)
	}

	extra := run.extra()
	extra["raw_html"] = page.HTML
	extra["extracted_text"] = page.Text
	extra["media_info"] = map[string]any{"images": page.Images}

	return domain.ArticleRecord{
		Title:            title,
		Content:          body,
		Source:           tapchiDomain,
		ExtraInformation: extra,
		ArticleURL:       articleURL,
		ImageURL:         tapchiImages.Select(page.Images),
		CreatedAt:        t.normalizer.Normalize(dates.CreatedAt),
		UpdatedAt:        t.normalizer.Normalize(dates.UpdatedAt),
	}
}
