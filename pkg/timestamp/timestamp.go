// Package timestamp converts the date strings found in article markup into
// epoch seconds.
package timestamp

import (
	"strings"
	"time"
)

// Unknown is returned for any date that cannot be determined
const Unknown int64 = 0

// isoLayouts are tried first. Zoned layouts keep their offset; the rest are
// read as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// BaseLayouts are the fallback patterns shared by every source, in order:
// YYYY-MM-DD HH:MM:SS, YYYY-MM-DDTHH:MM:SSZ, YYYY-MM-DD, Mon DD, YYYY, DD/MM/YYYY.
var BaseLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
	"Jan 2, 2006",
	"2/1/2006",
}

// ExtendedLayouts adds the long month name forms (DD Month YYYY, Month DD, YYYY).
var ExtendedLayouts = append(append([]string{}, BaseLayouts...),
	"2 January 2006",
	"January 2, 2006",
)

// Normalizer converts date strings using a fixed, ordered list of fallback layouts.
type Normalizer struct {
	layouts []string
}

// NewNormalizer creates a normalizer that tries ISO-8601 first and then layouts in order.
func NewNormalizer(layouts []string) *Normalizer {
	return &Normalizer{layouts: layouts}
}

// Normalize returns epoch seconds for s, or Unknown. It never fails.
func (n *Normalizer) Normalize(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}

	if t, ok := parseFirst(s, isoLayouts); ok {
		return epoch(t)
	}
	if t, ok := parseFirst(s, n.layouts); ok {
		return epoch(t)
	}
	return Unknown
}

// Normalize converts s with BaseLayouts.
func Normalize(s string) int64 {
	return NewNormalizer(BaseLayouts).Normalize(s)
}

func parseFirst(s string, layouts []string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func epoch(t time.Time) int64 {
	sec := t.Unix()
	if sec < 0 {
		return Unknown
	}
	return sec
}
