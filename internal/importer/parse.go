package importer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// AlbumPage is the raw material extracted from an album document
type AlbumPage struct {
	RawTitle    string
	Description string
	Images      []string
}

// ParseAlbumPage pulls the raw title, description and image URLs out of
// an album document.
func ParseAlbumPage(doc *goquery.Document, imageCap int) *AlbumPage {
	page := &AlbumPage{
		RawTitle:    extractRawTitle(doc),
		Description: extractDescription(doc),
		Images:      CollectImages(doc, imageCap),
	}
	return page
}

// extractRawTitle tries the usual title carriers in order of fidelity
func extractRawTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func extractDescription(doc *goquery.Document) string {
	if desc := strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", "")); desc != "" {
		return desc
	}
	return strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
}
