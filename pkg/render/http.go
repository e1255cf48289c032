package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"newscrawler/pkg/httpclient"
	"newscrawler/pkg/logger"
)

// maxBodyBytes caps how much of a response is read
const maxBodyBytes = 10 << 20

// nonContentSelectors are stripped before deriving text and markdown
const nonContentSelectors = "script, style, noscript, template, iframe"

// HTTPRenderer renders pages with a plain HTTP fetch. It does not execute
// JavaScript; pages that build their content client-side come back with
// whatever the server sends.
type HTTPRenderer struct {
	client *httpclient.HTTPClient
	logger logger.Logger
}

// NewHTTPRenderer creates a renderer backed by the given client
func NewHTTPRenderer(client *httpclient.HTTPClient, log logger.Logger) *HTTPRenderer {
	return &HTTPRenderer{client: client, logger: log}
}

// Render fetches pageURL and derives the page representations.
// Transport failures are returned as errors; HTTP and content problems are
// reported through Page.Success and Page.ErrorMessage.
func (r *HTTPRenderer) Render(ctx context.Context, pageURL string, opts Options) (*Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil, fmt.Errorf("invalid page URL %q", pageURL)
	}

	header := http.Header{}
	if opts.BypassCache {
		header.Set("Cache-Control", "no-cache")
		header.Set("Pragma", "no-cache")
	}

	resp, err := r.client.Get(ctx, pageURL, header)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	page := &Page{
		URL:        pageURL,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		page.ErrorMessage = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		return page, nil
	}
	if strings.TrimSpace(page.HTML) == "" {
		page.ErrorMessage = "empty response body"
		return page, nil
	}

	// Links resolve against the final URL after redirects
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		page.ErrorMessage = fmt.Sprintf("failed to parse HTML: %v", err)
		return page, nil
	}

	page.Images = collectImages(doc, base)
	page.InternalLinks, page.ExternalLinks = collectLinks(doc, base)

	doc.Find(nonContentSelectors).Remove()
	bodySel := doc.Find("body")
	page.WordCount = len(strings.Fields(bodySel.Text()))
	page.Markdown = strings.TrimSpace(md.NewConverter("", true, nil).Convert(bodySel))
	page.Text = readableText(page.HTML, base, bodySel)

	if opts.WordCountThreshold > 0 && page.WordCount < opts.WordCountThreshold {
		page.ErrorMessage = fmt.Sprintf("word count %d below threshold %d", page.WordCount, opts.WordCountThreshold)
		return page, nil
	}

	page.Success = true
	r.logger.Debug("Rendered page",
		logger.String("url", pageURL),
		logger.Int("words", page.WordCount),
		logger.Int("images", len(page.Images)),
		logger.Int("internal_links", len(page.InternalLinks)))

	return page, nil
}

// readableText returns the main text as found by readability, falling back to the body text
func readableText(html string, base *url.URL, body *goquery.Selection) string {
	article, err := readability.FromReader(strings.NewReader(html), base)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text
		}
	}
	return strings.TrimSpace(body.Text())
}

func collectImages(doc *goquery.Document, base *url.URL) []Image {
	var images []Image
	seen := make(map[string]bool)

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := firstAttr(img, "src", "data-src", "data-lazy-src")
		if src == "" || strings.HasPrefix(src, "data:") {
			return
		}
		abs := resolve(base, src)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true

		alt, _ := img.Attr("alt")
		images = append(images, Image{Src: abs, Alt: strings.TrimSpace(alt)})
	})

	return images
}

func collectLinks(doc *goquery.Document, base *url.URL) (internal, external []string) {
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if skipHref(href) {
			return
		}

		abs := resolve(base, href)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true

		u, err := url.Parse(abs)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return
		}
		if SameSite(u.Hostname(), base.Hostname()) {
			internal = append(internal, abs)
		} else {
			external = append(external, abs)
		}
	})

	return internal, external
}

func skipHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func firstAttr(s *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := s.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// resolve makes ref absolute against base and drops the fragment
func resolve(base *url.URL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}

// SameSite reports whether host belongs to the site at baseHost, ignoring a
// leading "www." and accepting subdomains.
func SameSite(host, baseHost string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	baseHost = strings.TrimPrefix(strings.ToLower(baseHost), "www.")
	if host == "" || baseHost == "" {
		return false
	}
	return host == baseHost || strings.HasSuffix(host, "."+baseHost)
}
