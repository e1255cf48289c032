package content

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"newscrawler/pkg/domain"
)

// earliestPlausibleYear bounds the tag scan from below; the current year bounds it from above
const earliestPlausibleYear = 2020

// metaTimestampLayout is how a combined date and time token from a metadata list is read
const metaTimestampLayout = "2/1/2006 15:04"

var (
	metaDateToken = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`)
	metaTimeToken = regexp.MustCompile(`^\d{1,2}:\d{2}`)
)

// StructuredDates reads datePublished and dateModified from the page's
// JSON-LD blocks. The first string value of each field wins; the search stops
// once both are known. Objects, lists of objects and @graph arrays are
// searched. Malformed blocks are skipped.
func StructuredDates(doc *goquery.Document) domain.RawDates {
	var dates domain.RawDates

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var data any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &data); err != nil {
			return true
		}
		collectDates(data, &dates)
		return !dates.Complete()
	})

	return dates
}

func collectDates(v any, dates *domain.RawDates) {
	if dates.Complete() {
		return
	}

	switch node := v.(type) {
	case map[string]any:
		if s, ok := node["datePublished"].(string); ok && dates.CreatedAt == "" {
			dates.CreatedAt = s
		}
		if s, ok := node["dateModified"].(string); ok && dates.UpdatedAt == "" {
			dates.UpdatedAt = s
		}
		if graph, ok := node["@graph"]; ok {
			collectDates(graph, dates)
		}
	case []any:
		for _, item := range node {
			collectDates(item, dates)
		}
	}
}

// MetaListDates scans the items of the list matching selector for a
// D/M/YYYY token and an H:MM token. With both, the combined value is returned
// as an ISO timestamp; with only the date, the date token itself.
// UpdatedAt is never set.
func MetaListDates(doc *goquery.Document, selector string) domain.RawDates {
	var dateToken, timeToken string

	doc.Find(selector).First().Find("li").Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(li.Text())
		switch {
		case metaDateToken.MatchString(text):
			dateToken = text
		case metaTimeToken.MatchString(text):
			timeToken = text
		}
	})

	if dateToken == "" {
		return domain.RawDates{}
	}
	if timeToken != "" {
		if t, err := time.Parse(metaTimestampLayout, dateToken+" "+timeToken); err == nil {
			return domain.RawDates{CreatedAt: t.Format("2006-01-02T15:04:05")}
		}
	}
	return domain.RawDates{CreatedAt: dateToken}
}

// TagScanDate returns the first <time datetime> value, then the first
// span whose class starts with "date", that mentions a year between 2020 and
// now's year.
func TagScanDate(doc *goquery.Document, now time.Time) string {
	var found string

	doc.Find("time[datetime]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("datetime")
		if plausibleYear(v, now) {
			found = strings.TrimSpace(v)
		}
		return found == ""
	})
	if found != "" {
		return found
	}

	doc.Find(`span[class^="date"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v := strings.TrimSpace(s.Text())
		if plausibleYear(v, now) {
			found = v
		}
		return found == ""
	})
	return found
}

func plausibleYear(s string, now time.Time) bool {
	for y := earliestPlausibleYear; y <= now.Year(); y++ {
		if strings.Contains(s, strconv.Itoa(y)) {
			return true
		}
	}
	return false
}
