package importer

import "math"

// ComputeRetailPrice turns a supplier yuan price into the landed retail
// price: convert at the exchange rate, add flat shipping and the
// declared-value surcharge, apply the margin, then charm-round to the
// nearest multiple of five plus .99.
//
// Without a usable yuan price the manual default is returned untouched
// and manual is true.
func ComputeRetailPrice(rawYuan *float64, cfg PricingConfig, manualDefault float64) (price float64, manual bool) {
	if rawYuan == nil || *rawYuan <= 0 {
		return manualDefault, true
	}

	cost := *rawYuan*cfg.ExchangeRate + cfg.FlatShipping + cfg.DeclaredSurcharge
	retail := cost * (1 + cfg.MarginPercent/100)
	retail = math.Round(retail*100) / 100

	return math.Round(retail/5)*5 + 0.99, false
}
