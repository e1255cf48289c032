// Package content holds the field extraction helpers shared by the sources:
// title strategies, markdown cleanup, container extraction, image selection
// and raw date discovery. None of them return errors; every helper degrades
// to an empty value.
package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"newscrawler/pkg/domain"
)

const (
	// headingTitleMinLen is the length a heading must exceed to be used as a title
	headingTitleMinLen = 10
	// contentStartMinLen is the length a "# " line must exceed to start the content
	contentStartMinLen = 10
	// minLineLen drops shorter lines from cleaned content
	minLineLen = 5
)

var (
	imageSyntax = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	linkSyntax  = regexp.MustCompile(`\[.*?\]\(.*?\)`)
	blankRuns   = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// Parse builds a document from html. Malformed markup still yields a usable,
// possibly empty, document.
func Parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

// HeadingTitle returns the text of the first "# " line in markdown that is
// longer than 10 characters once link syntax is removed and that contains
// none of the noise terms (case-insensitive).
func HeadingTitle(markdown string, noise []string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "# ") {
			continue
		}

		title := strings.TrimSpace(linkSyntax.ReplaceAllString(line[2:], ""))
		if utf8.RuneCountInString(title) <= headingTitleMinLen {
			continue
		}
		if containsAny(strings.ToLower(title), noise) {
			continue
		}
		return title
	}
	return ""
}

// TitleTag returns the trimmed <title> text
func TitleTag(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// FirstHeading returns the trimmed text of the first <h1>
func FirstHeading(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

// StripBranding removes every match of the suffix patterns from title
func StripBranding(title string, suffixes ...*regexp.Regexp) string {
	for _, re := range suffixes {
		title = re.ReplaceAllString(title, "")
	}
	return strings.TrimSpace(title)
}

// Title returns the first non-empty candidate, or domain.UntitledTitle
func Title(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return domain.UntitledTitle
}

// CleanLines applies the line-filtering policy to markdown. Everything before
// the first "# " heading longer than 10 characters is dropped. After it, lines
// containing a skip phrase or shorter than 5 characters are dropped, and
// image and link syntax is stripped from the rest.
func CleanLines(markdown string, skip []string) string {
	if markdown == "" {
		return ""
	}

	var kept []string
	started := false

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, "# ") && utf8.RuneCountInString(line) > contentStartMinLen {
			started = true
			kept = append(kept, line)
			continue
		}
		if !started {
			continue
		}
		if containsAny(line, skip) || utf8.RuneCountInString(line) < minLineLen {
			continue
		}

		line = imageSyntax.ReplaceAllString(line, "")
		line = linkSyntax.ReplaceAllString(line, "")
		if line != "" {
			kept = append(kept, line)
		}
	}

	return strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(kept, "\n"), "\n\n"))
}

// ContainerMarkdown converts the first element matching selector to markdown
// with unlimited line width, keeping headings, emphasis and links. It returns
// "" and false when no element matches.
func ContainerMarkdown(doc *goquery.Document, selector string) (string, bool) {
	container := doc.Find(selector).First()
	if container.Length() == 0 {
		return "", false
	}

	converted := strings.TrimSpace(md.NewConverter("", true, nil).Convert(container))
	if converted != "" {
		return converted, true
	}
	return strings.TrimSpace(container.Text()), true
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
