package importer

import (
	"strings"
)

// categoryAliases maps enrichment hints onto category codes
var categoryAliases = map[string]CategoryCode{
	"sneakers":    CategorySneakers,
	"sneaker":     CategorySneakers,
	"shoes":       CategorySneakers,
	"shoe":        CategorySneakers,
	"footwear":    CategorySneakers,
	"clothing":    CategoryClothing,
	"apparel":     CategoryClothing,
	"clothes":     CategoryClothing,
	"accessories": CategoryAccessories,
	"accessory":   CategoryAccessories,
	"bags":        CategoryBags,
	"bag":         CategoryBags,
	"eyewear":     CategoryEyewear,
	"glasses":     CategoryEyewear,
	"sunglasses":  CategoryEyewear,
	"watches":     CategoryWatches,
	"watch":       CategoryWatches,
	"other":       CategoryOther,
}

// categoryKeywords are scanned against the title when no hint resolves
var categoryKeywords = []struct {
	code  CategoryCode
	words []string
}{
	{CategoryClothing, []string{"hoodie", "tee", "t-shirt", "tshirt", "shirt", "jacket", "pants", "shorts", "sweater", "tracksuit", "coat", "vest", "jersey"}},
	{CategoryBags, []string{"backpack", "bag", "tote", "duffle", "wallet", "pouch"}},
	{CategoryEyewear, []string{"sunglasses", "glasses", "eyewear"}},
	{CategoryWatches, []string{"watch", "chronograph"}},
	{CategoryAccessories, []string{"belt", "cap", "hat", "beanie", "scarf", "socks", "keychain"}},
	{CategorySneakers, []string{"sneaker", "shoe", "jordan", "dunk", "yeezy", "air max", "air force", "boost", "retro", "slide", "runner"}},
}

var categoryLabels = map[CategoryCode]string{
	CategorySneakers:    "Sneakers",
	CategoryClothing:    "Clothing",
	CategoryAccessories: "Accessories",
	CategoryBags:        "Bags",
	CategoryEyewear:     "Eyewear",
	CategoryWatches:     "Watches",
	CategoryOther:       "Other",
}

// knownBrands in detection order; multi-word brands come before their
// single-word substrings.
var knownBrands = []string{
	"Air Jordan", "Jordan", "New Balance", "Nike", "Adidas", "Yeezy",
	"Balenciaga", "Louis Vuitton", "Gucci", "Dior", "Prada",
	"Off-White", "Off White", "Supreme", "The North Face", "Moncler",
	"Canada Goose", "Stone Island", "Bape", "Asics", "Converse",
	"Vans", "Puma", "Rolex", "Omega",
}

// Classify resolves the category from an enrichment hint first, then
// from title keywords. Sneakers is the default vertical.
func Classify(title string, hint string) CategoryCode {
	if hint != "" {
		if code, ok := categoryAliases[strings.ToLower(strings.TrimSpace(hint))]; ok {
			return code
		}
	}

	lower := strings.ToLower(title)
	for _, group := range categoryKeywords {
		for _, word := range group.words {
			if containsWord(lower, word) {
				return group.code
			}
		}
	}

	return CategorySneakers
}

// CategoryLabel returns the display label for a category code
func CategoryLabel(code CategoryCode) string {
	if label, ok := categoryLabels[code]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}

// DetectBrand scans the title for a known brand name
func DetectBrand(title string) string {
	lower := strings.ToLower(title)
	for _, brand := range knownBrands {
		if containsWord(lower, strings.ToLower(brand)) {
			// Jordan products are branded Jordan even when prefixed Air
			if brand == "Air Jordan" {
				return "Jordan"
			}
			return brand
		}
	}
	return DefaultBrand
}

// containsWord reports whether needle occurs in haystack on word
// boundaries, so "cap" does not match "escape".
func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		pos := strings.Index(haystack[idx:], needle)
		if pos < 0 {
			return false
		}
		pos += idx
		before := pos == 0 || !isWordRune(rune(haystack[pos-1]))
		afterIdx := pos + len(needle)
		after := afterIdx >= len(haystack) || !isWordRune(rune(haystack[afterIdx]))
		if before && after {
			return true
		}
		idx = pos + 1
	}
}

func isWordRune(r rune) bool {
	return r == '-' || r == '\'' ||
		('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}
