package content

import (
	"strings"

	"newscrawler/pkg/render"
)

// ImagePolicy picks the representative image of an article.
// Matching is by case-insensitive substring, as the URLs often carry query
// strings after the extension.
type ImagePolicy struct {
	// PreferredHost, when set, enables a first pass over images served from it
	PreferredHost string
	Extensions    []string
	// PreferredDeny applies to the first pass only
	PreferredDeny []string
	// FallbackDeny applies to the second pass
	FallbackDeny []string
}

// Select returns the first image accepted by the preferred pass, then by the
// fallback pass, or "".
func (p ImagePolicy) Select(images []render.Image) string {
	if p.PreferredHost != "" {
		host := strings.ToLower(p.PreferredHost)
		for _, img := range images {
			src := strings.ToLower(img.Src)
			if strings.Contains(src, host) && p.hasExtension(src) && !containsAny(src, p.PreferredDeny) {
				return img.Src
			}
		}
	}

	for _, img := range images {
		src := strings.ToLower(img.Src)
		if p.hasExtension(src) && !containsAny(src, p.FallbackDeny) {
			return img.Src
		}
	}
	return ""
}

func (p ImagePolicy) hasExtension(src string) bool {
	return src != "" && containsAny(src, p.Extensions)
}
