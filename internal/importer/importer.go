package importer

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"brkicks/importworker/helpers"
	"brkicks/importworker/internal/enricher"
	"brkicks/importworker/internal/fetcher"
	"brkicks/importworker/internal/rehost"
	"brkicks/importworker/logger"
	apperr "brkicks/importworker/pkg/errors"
)

// minUsableTitle is the shortest enriched title accepted over the
// deterministic one.
const minUsableTitle = 3

// Importer runs the album import pipeline. The enricher is optional;
// without one the pipeline is fully deterministic.
type Importer struct {
	fetcher       fetcher.Fetcher
	enricher      enricher.Enricher
	uploader      rehost.Uploader
	pricing       PricingConfig
	manualDefault float64
	imageCap      int
	log           *logger.Logger
}

// Option configures an Importer
type Option func(*Importer)

// WithEnricher attaches an AI enricher
func WithEnricher(e enricher.Enricher) Option {
	return func(i *Importer) {
		i.enricher = e
	}
}

// WithUploader enables rehosting album images to our own storage.
// Without one, candidates keep the supplier image URLs.
func WithUploader(u rehost.Uploader) Option {
	return func(i *Importer) {
		i.uploader = u
	}
}

// WithImageCap overrides the image cap
func WithImageCap(cap int) Option {
	return func(i *Importer) {
		i.imageCap = cap
	}
}

// New creates an Importer with the given fetcher and pricing
func New(f fetcher.Fetcher, pricing PricingConfig, manualDefault float64, opts ...Option) *Importer {
	imp := &Importer{
		fetcher:       f,
		pricing:       pricing,
		manualDefault: manualDefault,
		imageCap:      DefaultImageCap,
		log:           logger.ForImporter(),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// ImportFromAlbum fetches the album page and runs the pipeline on it.
// defaultPrice overrides the configured manual default when positive.
func (i *Importer) ImportFromAlbum(ctx context.Context, albumURL string, defaultPrice float64) (*ImportCandidate, error) {
	page, err := i.fetcher.Fetch(ctx, albumURL)
	if err != nil {
		return nil, err
	}

	i.log.Debug().
		Str("url", albumURL).
		Str("strategy", page.Strategy).
		Msg("Album page fetched")

	return i.ImportFromHTML(ctx, albumURL, page.HTML, defaultPrice)
}

// ImportFromHTML runs the pipeline on caller-supplied HTML. Used by the
// admin paste flow where the operator grabs the page source manually.
func (i *Importer) ImportFromHTML(ctx context.Context, albumURL, html string, defaultPrice float64) (*ImportCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apperr.NewParsing(albumURL, "failed to parse album HTML", err)
	}

	page := ParseAlbumPage(doc, i.imageCap)

	title := CleanTitle(page.RawTitle)

	priceYuan := ExtractPriceFromText(page.RawTitle)
	if priceYuan == nil {
		priceYuan = ExtractPriceFromText(page.Description)
	}
	if priceYuan == nil {
		priceYuan = FindPriceInDocument(doc)
	}

	brand := ""
	model := ""
	categoryHint := ""

	if i.enricher != nil {
		if enriched := i.enricher.Enrich(ctx, page.RawTitle, priceYuan); enriched != nil {
			if len(strings.TrimSpace(enriched.Title)) >= minUsableTitle {
				title = strings.TrimSpace(enriched.Title)
			}
			if enriched.PriceYuan != nil && *enriched.PriceYuan > 0 {
				priceYuan = enriched.PriceYuan
			}
			brand = strings.TrimSpace(enriched.Brand)
			model = strings.TrimSpace(enriched.Subtype)
			categoryHint = enriched.Category
		}
	}

	if brand == "" {
		brand = DetectBrand(title)
	}
	category := Classify(title, categoryHint)

	manualDefault := i.manualDefault
	if defaultPrice > 0 {
		manualDefault = defaultPrice
	}
	price, manual := ComputeRetailPrice(priceYuan, i.pricing, manualDefault)

	albumID, err := helpers.AlbumIDFromURL(albumURL)
	if err != nil {
		albumID = ""
	}

	images := page.Images
	if i.uploader != nil {
		images = rehost.Rehost(ctx, i.uploader, albumID, images)
	}

	candidate := &ImportCandidate{
		ID:            uuid.NewString(),
		AlbumID:       albumID,
		RawTitle:      page.RawTitle,
		Title:         title,
		Brand:         brand,
		Model:         model,
		Category:      category,
		CategoryLabel: CategoryLabel(category),
		PriceYuan:     priceYuan,
		Price:         price,
		ManualPrice:   manual,
		Images:        images,
		SourceURL:     albumURL,
		ImportedAt:    time.Now().UTC(),
	}

	i.log.Info().
		Str("id", candidate.ID).
		Str("title", candidate.Title).
		Str("category", string(candidate.Category)).
		Float64("price", candidate.Price).
		Bool("manual", candidate.ManualPrice).
		Int("images", len(candidate.Images)).
		Msg("Album imported")

	return candidate, nil
}
