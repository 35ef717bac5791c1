package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Price patterns tried in order. Symbol-marked forms all come before
// the bare trailing "y" so that year-like runs ("2023y") can never
// shadow a real ¥ amount; when a title carries both "260¥" and "200y"
// the symbol-marked amount wins.
var pricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)¥\s*([\d.]+)`),
	regexp.MustCompile(`[¥￥]\s*(\d+(?:[.,]\d{1,2})?)`),
	regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)\s*[¥￥]`),
	regexp.MustCompile(`(?i)([\d.]+)\s*y\b`),
}

// bareNumberPattern matches a standalone amount inside price-tagged elements
var bareNumberPattern = regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)`)

// maxPriceElementText guards against matching prices inside huge blobs
const maxPriceElementText = 200

// ExtractPriceFromText returns the first yuan amount found in the text,
// or nil when no pattern matches.
func ExtractPriceFromText(s string) *float64 {
	for _, pattern := range pricePatterns {
		match := pattern.FindStringSubmatch(s)
		if match == nil {
			continue
		}
		if price, ok := parseAmount(match[1]); ok {
			return &price
		}
	}
	return nil
}

// FindPriceInDocument scans the page for a yuan price. Candidates are
// tried in order of reliability: price-tagged elements, price metadata,
// then a regex sweep over the whole document.
func FindPriceInDocument(doc *goquery.Document) *float64 {
	// Elements whose class or id mentions a price
	var found *float64
	doc.Find("[class],[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		marker := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
		if !strings.Contains(marker, "price") && !strings.Contains(marker, "yuan") {
			return true
		}
		text := strings.TrimSpace(s.Text())
		if text == "" || len(text) > maxPriceElementText {
			return true
		}
		if price := ExtractPriceFromText(text); price != nil {
			found = price
			return false
		}
		if match := bareNumberPattern.FindStringSubmatch(text); match != nil {
			if price, ok := parseAmount(match[1]); ok {
				found = &price
				return false
			}
		}
		return true
	})
	if found != nil {
		return found
	}

	// Price metadata
	var metaPrice *float64
	doc.Find(`meta[property="product:price:amount"], meta[name="price"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return true
		}
		if price, ok := parseAmount(content); ok {
			metaPrice = &price
			return false
		}
		return true
	})
	if metaPrice != nil {
		return metaPrice
	}

	// Last resort: sweep the whole document
	if html, err := doc.Html(); err == nil {
		return ExtractPriceFromText(html)
	}
	return nil
}

// parseAmount parses a matched amount, tolerating a comma decimal mark
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.Trim(s, ".")
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
