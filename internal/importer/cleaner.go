package importer

import (
	"regexp"
	"strings"
)

// watermark is the album-hosting watermark appended to page titles
const watermark = "又拍图片管家"

var (
	cjkPattern       = regexp.MustCompile(`[\x{4e00}-\x{9fff}\x{3000}-\x{303f}\x{ff01}-\x{ff0f}\x{ff1a}-\x{ff20}]`)
	codePattern      = regexp.MustCompile(`(?i)\b[A-Z]{2,}\d{3,}-\d{3,}\b`)
	batchPattern     = regexp.MustCompile(`(?i)\b(C Batch|Batch|OG|PK|LJR|Top|Version|VT|New)\b`)
	priceTagPattern  = regexp.MustCompile(`(?i)(?:[¥￥]\s*[\d.,]+|[\d.,]+\s*[¥￥]|\b[\d.]+\s*y\b)`)
	sizeRunPattern   = regexp.MustCompile(`\b\d{2}(?:\.\d)?\s*-\s*\d{2}(?:\.\d)?\b`)
	punctRunPattern  = regexp.MustCompile(`[-_,.:;/\\+*#&()\[\]{}]{2,}`)
	danglingPattern  = regexp.MustCompile(`\s[-_,.:;/\\+*#&]\s`)
	whitespaceJoiner = regexp.MustCompile(`\s+`)
)

// knownTokens are recognizable product words used to rebuild a title
// when cleaning leaves nothing usable. Batch vocabulary is deliberately
// absent so rebuilt titles survive a second cleaning pass unchanged.
var knownTokens = []string{
	"air", "jordan", "nike", "adidas", "yeezy", "dunk", "force",
	"max", "retro", "boost", "balance", "bape", "travis", "off",
	"white", "black", "low", "high", "mid",
}

// CleanTitle normalizes a raw album title into a shop-ready product
// name. The result is idempotent: cleaning a cleaned title is a no-op.
func CleanTitle(raw string) string {
	title := raw

	// Watermark and everything pipe-separated after the product name
	title = strings.ReplaceAll(title, watermark, " ")
	if idx := strings.IndexAny(title, "|｜"); idx >= 0 {
		title = title[:idx]
	}

	title = priceTagPattern.ReplaceAllString(title, " ")
	title = codePattern.ReplaceAllString(title, " ")
	title = batchPattern.ReplaceAllString(title, " ")
	title = cjkPattern.ReplaceAllString(title, " ")
	title = sizeRunPattern.ReplaceAllString(title, " ")
	title = punctRunPattern.ReplaceAllString(title, " ")
	title = danglingPattern.ReplaceAllString(title, " ")

	title = whitespaceJoiner.ReplaceAllString(title, " ")
	title = strings.Trim(title, " -_,.:;/\\+*#&|")

	if len(title) < 3 {
		if rebuilt := rebuildFromTokens(raw); rebuilt != "" {
			return rebuilt
		}
		return DefaultTitle
	}

	return title
}

// rebuildFromTokens scans the raw title for recognizable product words
// and reassembles them in order of appearance.
func rebuildFromTokens(raw string) string {
	lower := strings.ToLower(raw)
	var parts []string
	seen := make(map[string]bool)

	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		for _, token := range knownTokens {
			if word == token && !seen[token] {
				seen[token] = true
				parts = append(parts, strings.ToUpper(token[:1])+token[1:])
				break
			}
		}
	}

	return strings.Join(parts, " ")
}
