package importer

import (
	"context"
	"errors"
	"path"

	"brkicks/importworker/internal/enricher"
	"brkicks/importworker/internal/fetcher"
)

// mockFetcher serves a canned HTML page
type mockFetcher struct {
	html string
	err  error
}

func (m *mockFetcher) Fetch(_ context.Context, pageURL string) (*fetcher.Page, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &fetcher.Page{URL: pageURL, HTML: m.html, Strategy: "mock"}, nil
}

// mockEnricher returns a fixed result, nil by default
type mockEnricher struct {
	result *enricher.Result
	calls  int
}

func (m *mockEnricher) Enrich(_ context.Context, _ string, _ *float64) *enricher.Result {
	m.calls++
	return m.result
}

// mockUploader rewrites image URLs onto a fake CDN host
type mockUploader struct{}

func (mockUploader) Upload(_ context.Context, albumID, imageURL string) (string, error) {
	return "https://cdn.test/" + albumID + "/" + path.Base(imageURL), nil
}

var errFetchFailed = errors.New("fetch failed")
