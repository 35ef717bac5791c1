package importer

import (
	"encoding/json"
	"time"
)

// CategoryCode identifies a shop category
type CategoryCode string

const (
	CategorySneakers    CategoryCode = "sneakers"
	CategoryClothing    CategoryCode = "clothing"
	CategoryAccessories CategoryCode = "accessories"
	CategoryBags        CategoryCode = "bags"
	CategoryEyewear     CategoryCode = "eyewear"
	CategoryWatches     CategoryCode = "watches"
	CategoryOther       CategoryCode = "other"
)

// DefaultTitle is used when nothing usable survives title cleaning
const DefaultTitle = "Imported Product"

// DefaultBrand is used when no known brand is detected
const DefaultBrand = "Generic"

// PricingConfig holds the landed-cost parameters
type PricingConfig struct {
	ExchangeRate      float64
	FlatShipping      float64
	DeclaredSurcharge float64
	MarginPercent     float64
}

// DefaultPricing returns the standard pricing parameters
func DefaultPricing() PricingConfig {
	return PricingConfig{
		ExchangeRate:      0.75,
		FlatShipping:      80,
		DeclaredSurcharge: 60,
		MarginPercent:     40,
	}
}

// ImportCandidate is the normalized product produced by an import
type ImportCandidate struct {
	ID            string       `json:"id"`
	AlbumID       string       `json:"albumId,omitempty"`
	RawTitle      string       `json:"rawTitle"`
	Title         string       `json:"title"`
	Brand         string       `json:"brand"`
	Model         string       `json:"model,omitempty"`
	Category      CategoryCode `json:"category"`
	CategoryLabel string       `json:"categoryLabel"`
	PriceYuan     *float64     `json:"priceYuan"`
	Price         float64      `json:"price"`
	ManualPrice   bool         `json:"manualPrice"`
	Images        []string     `json:"images"`
	SourceURL     string       `json:"sourceUrl"`
	ImportedAt    time.Time    `json:"importedAt"`
}

// Encode marshals the candidate for publishing
func (c *ImportCandidate) Encode() ([]byte, error) {
	return json.Marshal(c)
}
