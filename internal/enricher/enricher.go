package enricher

import (
	"context"
)

// Result is a structured enrichment of a raw album title. Any field may
// be empty; PriceYuan is nil when the model could not determine one.
type Result struct {
	Title     string   `json:"title"`
	Brand     string   `json:"brand"`
	Category  string   `json:"category"`
	Subtype   string   `json:"subtype"`
	PriceYuan *float64 `json:"priceYuan"`
}

// Enricher enriches raw album titles. Implementations never return an
// error: a nil Result means enrichment failed or was unusable and the
// deterministic pipeline result stands.
type Enricher interface {
	Enrich(ctx context.Context, rawTitle string, priceHint *float64) *Result
}
