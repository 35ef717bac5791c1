package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brkicks/importworker/internal/fetcher"
	"brkicks/importworker/internal/importer"
	"brkicks/importworker/internal/server"
)

// Album page resembling a supplier photo album
const testAlbumHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>Air Jordan 4 军事黑 Military Black OG Batch HQ8487-400 ¥260 | 又拍图片管家</title>
    <meta property="og:title" content="Air Jordan 4 军事黑 Military Black OG Batch HQ8487-400 ¥260 | 又拍图片管家">
</head>
<body>
    <div class="showalbum__children">
        <img data-src="//photo.yupoo.test/album/photo1.jpg" src="//photo.yupoo.test/placeholder.jpg">
        <img data-src="//photo.yupoo.test/album/photo2.jpg" src="//photo.yupoo.test/placeholder.jpg">
        <img src="//photo.yupoo.test/logo.png">
    </div>
</body>
</html>
`

// TestIntegration runs the full request flow: admin API, strategy
// chain, pipeline, response envelope.
func TestIntegration(t *testing.T) {
	// Serve the album page like the supplier site would
	albumServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, testAlbumHTML)
	}))
	defer albumServer.Close()

	albumHost, err := url.Parse(albumServer.URL)
	require.NoError(t, err)

	chain := fetcher.NewChainFetcher([]fetcher.Strategy{
		fetcher.NewDirectStrategy(5 * time.Second),
	})

	importSvc := importer.New(chain, importer.DefaultPricing(), 150)
	srv := server.New(importSvc, nil, []string{albumHost.Hostname()})

	payload, err := json.Marshal(map[string]interface{}{
		"url":          albumServer.URL + "/albums/424242",
		"defaultPrice": 150,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/imports", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var envelope struct {
		Success bool                     `json:"success"`
		Data    importer.ImportCandidate `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	candidate := envelope.Data

	assert.NotEmpty(t, candidate.ID)
	assert.Equal(t, "424242", candidate.AlbumID)
	assert.Equal(t, "Air Jordan 4 Military Black", candidate.Title)
	assert.Equal(t, "Jordan", candidate.Brand)
	assert.Equal(t, importer.CategorySneakers, candidate.Category)
	require.NotNil(t, candidate.PriceYuan)
	assert.Equal(t, 260.0, *candidate.PriceYuan)
	assert.Equal(t, 470.99, candidate.Price)
	assert.False(t, candidate.ManualPrice)
	assert.Equal(t, []string{
		"https://photo.yupoo.test/album/photo1.jpg",
		"https://photo.yupoo.test/album/photo2.jpg",
	}, candidate.Images)
}

// TestIntegrationFetchFailure exercises the chain exhausting all
// strategies and the API reporting the outage.
func TestIntegrationFetchFailure(t *testing.T) {
	downServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer downServer.Close()

	downHost, err := url.Parse(downServer.URL)
	require.NoError(t, err)

	chain := fetcher.NewChainFetcher([]fetcher.Strategy{
		fetcher.NewDirectStrategy(2 * time.Second),
	})
	importSvc := importer.New(chain, importer.DefaultPricing(), 150)
	srv := server.New(importSvc, nil, []string{downHost.Hostname()})

	payload, err := json.Marshal(map[string]string{"url": downServer.URL + "/albums/1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/imports", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
