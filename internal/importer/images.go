package importer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultImageCap bounds how many images one candidate carries
const DefaultImageCap = 15

// lazyAttrs in preference order; album pages put the real URL in a
// lazy-load attribute and a placeholder in src.
var lazyAttrs = []string{"data-src", "data-original", "src"}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

var excludedImageMarkers = []string{"logo", "watermark", "icon"}

// NormalizeImageURL validates an image URL and returns it in canonical
// form. Protocol-relative URLs get an https scheme.
func NormalizeImageURL(raw string) (string, bool) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", false
	}
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return "", false
	}

	lower := strings.ToLower(u)
	for _, marker := range excludedImageMarkers {
		if strings.Contains(lower, marker) {
			return "", false
		}
	}

	path := lower
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return u, true
		}
	}
	return "", false
}

// IsValidImage reports whether the URL points at a usable product image
func IsValidImage(raw string) bool {
	_, ok := NormalizeImageURL(raw)
	return ok
}

// CollectImages gathers up to cap unique product image URLs from the
// document, preferring lazy-load attributes over src.
func CollectImages(doc *goquery.Document, cap int) []string {
	if cap <= 0 {
		cap = DefaultImageCap
	}

	var images []string
	seen := make(map[string]bool)

	doc.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var candidate string
		for _, attr := range lazyAttrs {
			if v, exists := s.Attr(attr); exists && strings.TrimSpace(v) != "" {
				candidate = v
				break
			}
		}

		normalized, ok := NormalizeImageURL(candidate)
		if !ok || seen[normalized] {
			return true
		}
		seen[normalized] = true
		images = append(images, normalized)
		return len(images) < cap
	})

	return images
}
