package urls

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newscrawler/pkg/render"
)

// InternalLinks returns the page's internal links accepted by keep,
// deduplicated in first-seen order. A failed page yields nothing.
func InternalLinks(page *render.Page, keep KeepFunc) []string {
	if page == nil || !page.Success {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, href := range page.InternalLinks {
		if keep(href) {
			out = dedupe(seen, out, href)
		}
	}
	return out
}

// ContainerLinks collects the anchors inside the elements matching selector,
// resolves them against baseURL and keeps those accepted by keep, in
// document order without duplicates. Empty and fragment-only hrefs are
// skipped. A missing container yields nothing.
func ContainerLinks(html, baseURL, selector string, keep KeepFunc) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string

	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, exists := a.Attr("href")
		href = strings.TrimSpace(href)
		if !exists || href == "" || strings.HasPrefix(href, "#") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()

		if keep(abs) {
			out = dedupe(seen, out, abs)
		}
	})

	return out
}
