package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brkicks/importworker/internal/enricher"
)

const albumHTML = `<html>
<head>
	<title>Air Jordan 4 军事黑 Military Black OG Batch HQ8487-400 ¥260 | 又拍图片管家</title>
	<meta property="og:title" content="Air Jordan 4 军事黑 Military Black OG Batch HQ8487-400 ¥260 | 又拍图片管家">
	<meta name="description" content="36-47.5 top quality">
</head>
<body>
	<img data-src="https://photo.yupoo.com/a/1.jpg" src="https://photo.yupoo.com/placeholder.jpg">
	<img src="https://photo.yupoo.com/a/2.jpg">
	<img src="https://photo.yupoo.com/a/2.jpg">
	<img src="https://photo.yupoo.com/logo.png">
</body>
</html>`

const albumHTMLNoPrice = `<html>
<head><title>Mystery Album 军事黑 | 又拍图片管家</title></head>
<body><img src="https://photo.yupoo.com/a/9.jpg"></body>
</html>`

func newTestImporter(html string, opts ...Option) *Importer {
	return New(&mockFetcher{html: html}, DefaultPricing(), 150, opts...)
}

func TestImportFromAlbumDeterministic(t *testing.T) {
	imp := newTestImporter(albumHTML)

	candidate, err := imp.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/123456?uid=1", 0)
	require.NoError(t, err)

	assert.NotEmpty(t, candidate.ID)
	assert.Equal(t, "123456", candidate.AlbumID)
	assert.Equal(t, "Air Jordan 4 Military Black", candidate.Title)
	assert.Contains(t, candidate.RawTitle, "军事黑")
	assert.Equal(t, "Jordan", candidate.Brand)
	assert.Equal(t, CategorySneakers, candidate.Category)
	assert.Equal(t, "Sneakers", candidate.CategoryLabel)
	require.NotNil(t, candidate.PriceYuan)
	assert.Equal(t, 260.0, *candidate.PriceYuan)
	assert.Equal(t, 470.99, candidate.Price)
	assert.False(t, candidate.ManualPrice)
	assert.Equal(t, []string{
		"https://photo.yupoo.com/a/1.jpg",
		"https://photo.yupoo.com/a/2.jpg",
	}, candidate.Images)
	assert.Equal(t, "https://x.yupoo.com/albums/123456?uid=1", candidate.SourceURL)
	assert.False(t, candidate.ImportedAt.IsZero())
}

func TestImportManualDefaultWhenNoPrice(t *testing.T) {
	imp := newTestImporter(albumHTMLNoPrice)

	candidate, err := imp.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/9", 0)
	require.NoError(t, err)

	assert.Nil(t, candidate.PriceYuan)
	assert.True(t, candidate.ManualPrice)
	assert.Equal(t, 150.0, candidate.Price)
}

func TestImportRequestDefaultOverrides(t *testing.T) {
	imp := newTestImporter(albumHTMLNoPrice)

	candidate, err := imp.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/9", 200)
	require.NoError(t, err)

	assert.True(t, candidate.ManualPrice)
	assert.Equal(t, 200.0, candidate.Price)
}

func TestImportFetchErrorPropagates(t *testing.T) {
	imp := New(&mockFetcher{err: errFetchFailed}, DefaultPricing(), 150)

	candidate, err := imp.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/9", 0)
	assert.Nil(t, candidate)
	assert.ErrorIs(t, err, errFetchFailed)
}

func TestImportWithEnrichment(t *testing.T) {
	price := 300.0
	mock := &mockEnricher{result: &enricher.Result{
		Title:     "Jordan 4 Retro Military Black",
		Brand:     "Jordan",
		Category:  "sneakers",
		Subtype:   "basketball",
		PriceYuan: &price,
	}}
	imp := newTestImporter(albumHTML, WithEnricher(mock))

	candidate, err := imp.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/123", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, "Jordan 4 Retro Military Black", candidate.Title)
	assert.Equal(t, "Jordan", candidate.Brand)
	assert.Equal(t, "basketball", candidate.Model)
	require.NotNil(t, candidate.PriceYuan)
	assert.Equal(t, 300.0, *candidate.PriceYuan)
	assert.False(t, candidate.ManualPrice)
}

func TestImportEnrichmentShortTitleIgnored(t *testing.T) {
	mock := &mockEnricher{result: &enricher.Result{Title: "AJ", Category: "sneakers"}}
	imp := newTestImporter(albumHTML, WithEnricher(mock))

	candidate, err := imp.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/123", 0)
	require.NoError(t, err)

	// Enriched title too short: deterministic title stands
	assert.Equal(t, "Air Jordan 4 Military Black", candidate.Title)
}

func TestImportFailedEnrichmentFallsBack(t *testing.T) {
	// A nil enrichment result must leave output identical to the
	// enricher-free pipeline.
	plain := newTestImporter(albumHTML)
	enriched := newTestImporter(albumHTML, WithEnricher(&mockEnricher{result: nil}))

	a, err := plain.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/123", 0)
	require.NoError(t, err)
	b, err := enriched.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/123", 0)
	require.NoError(t, err)

	assert.Equal(t, a.Title, b.Title)
	assert.Equal(t, a.Brand, b.Brand)
	assert.Equal(t, a.Category, b.Category)
	assert.Equal(t, a.PriceYuan, b.PriceYuan)
	assert.Equal(t, a.Price, b.Price)
	assert.Equal(t, a.ManualPrice, b.ManualPrice)
	assert.Equal(t, a.Images, b.Images)
}

func TestImportWithUploaderRehostsImages(t *testing.T) {
	imp := newTestImporter(albumHTML, WithUploader(mockUploader{}))

	candidate, err := imp.ImportFromAlbum(context.Background(), "https://x.yupoo.com/albums/77", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.test/77/1.jpg",
		"https://cdn.test/77/2.jpg",
	}, candidate.Images)
}

func TestImportFromHTMLDirect(t *testing.T) {
	imp := newTestImporter("")

	candidate, err := imp.ImportFromHTML(context.Background(), "https://x.yupoo.com/albums/55", albumHTML, 0)
	require.NoError(t, err)
	assert.Equal(t, "Air Jordan 4 Military Black", candidate.Title)
	assert.Equal(t, "55", candidate.AlbumID)
}
