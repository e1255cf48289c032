package filter

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// Filter defines the interface for URL filtering
type Filter interface {
	ShouldKeep(ctx context.Context, url string) (bool, error)
}

// Keep reports whether every filter keeps urlStr. A filter error counts as a rejection.
func Keep(ctx context.Context, urlStr string, filters ...Filter) bool {
	if strings.TrimSpace(urlStr) == "" {
		return false
	}
	for _, f := range filters {
		ok, err := f.ShouldKeep(ctx, urlStr)
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// lowerPath returns the lowercased path of urlStr, which may be relative
func lowerPath(urlStr string) (string, bool) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", false
	}
	return strings.ToLower(parsed.Path), true
}

// BaseURLFilter filters out base/root URLs
type BaseURLFilter struct{}

// NewBaseURLFilter creates a new base URL filter
func NewBaseURLFilter() *BaseURLFilter {
	return &BaseURLFilter{}
}

// ShouldKeep returns false if URL is a base/root URL
func (f *BaseURLFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		// If we can't parse it, don't filter it out (let it fail later if needed)
		return true, nil
	}

	// Check if path is empty or just "/"
	path := strings.Trim(parsed.Path, "/")
	return path != "", nil
}

// MinPathLengthFilter keeps URLs whose path is longer than Min characters
type MinPathLengthFilter struct {
	Min int
}

// NewMinPathLengthFilter creates a filter rejecting paths of at most min characters
func NewMinPathLengthFilter(min int) *MinPathLengthFilter {
	return &MinPathLengthFilter{Min: min}
}

// ShouldKeep returns false for short or unparseable paths
func (f *MinPathLengthFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	path, ok := lowerPath(urlStr)
	return ok && len(path) > f.Min, nil
}

// PathDenylistFilter drops URLs whose lowercased path contains any of the fragments
type PathDenylistFilter struct {
	fragments []string
}

// NewPathDenylistFilter creates a denylist filter. Fragments are matched as lowercase substrings.
func NewPathDenylistFilter(fragments ...string) *PathDenylistFilter {
	lowered := make([]string, len(fragments))
	for i, f := range fragments {
		lowered[i] = strings.ToLower(f)
	}
	return &PathDenylistFilter{fragments: lowered}
}

// ShouldKeep returns false if the path contains a denied fragment
func (f *PathDenylistFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	path, ok := lowerPath(urlStr)
	if !ok {
		return false, nil
	}
	for _, frag := range f.fragments {
		if strings.Contains(path, frag) {
			return false, nil
		}
	}
	return true, nil
}

// DomainSuffixFilter keeps absolute URLs whose host ends with Suffix
type DomainSuffixFilter struct {
	Suffix string
}

// NewDomainSuffixFilter creates a filter for the given domain suffix
func NewDomainSuffixFilter(suffix string) *DomainSuffixFilter {
	return &DomainSuffixFilter{Suffix: strings.ToLower(suffix)}
}

// ShouldKeep returns false for relative URLs and foreign hosts
func (f *DomainSuffixFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false, nil
	}
	return parsed.Host != "" && strings.HasSuffix(strings.ToLower(parsed.Host), f.Suffix), nil
}

// ArticleShapeFilter keeps paths that look like a single article: ending in
// DocSuffix, or a one-segment slug longer than MinSlugLen.
type ArticleShapeFilter struct {
	DocSuffix  string
	Slug       *regexp.Regexp
	MinSlugLen int
}

// NewArticleShapeFilter creates a filter accepting docSuffix paths or single-segment slugs longer than minSlugLen
func NewArticleShapeFilter(docSuffix string, minSlugLen int) *ArticleShapeFilter {
	return &ArticleShapeFilter{
		DocSuffix:  docSuffix,
		Slug:       regexp.MustCompile(`^/[a-zA-Z0-9-]+/?$`),
		MinSlugLen: minSlugLen,
	}
}

// ShouldKeep returns true for document-suffixed paths and long slugs
func (f *ArticleShapeFilter) ShouldKeep(ctx context.Context, urlStr string) (bool, error) {
	path, ok := lowerPath(urlStr)
	if !ok || len(path) <= 1 {
		return false, nil
	}
	if f.DocSuffix != "" && strings.HasSuffix(path, f.DocSuffix) {
		return true, nil
	}
	return f.Slug.MatchString(path) && len(path) > f.MinSlugLen, nil
}
