package rehost

import (
	"context"
	"sync"

	"brkicks/importworker/logger"
)

// MaxImages bounds how many images one album re-hosts
const MaxImages = 12

// maxConcurrent uploads run at once
const maxConcurrent = 3

// Uploader copies a remote image to owned storage and returns its new URL
type Uploader interface {
	Upload(ctx context.Context, albumID, imageURL string) (string, error)
}

// Rehost uploads up to MaxImages album images through the uploader.
// Failed uploads fall back to the source URL so the candidate never
// loses pictures; input order is preserved.
func Rehost(ctx context.Context, uploader Uploader, albumID string, imageURLs []string) []string {
	if uploader == nil || len(imageURLs) == 0 {
		return imageURLs
	}

	log := logger.ForRehost()

	urls := imageURLs
	if len(urls) > MaxImages {
		urls = urls[:MaxImages]
	}

	results := make([]string, len(urls))
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup

	for idx, src := range urls {
		wg.Add(1)
		go func(idx int, src string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			hosted, err := uploader.Upload(ctx, albumID, src)
			if err != nil {
				log.Warn().
					Str("album", albumID).
					Str("image", src).
					Err(err).
					Msg("Image upload failed, keeping source URL")
				results[idx] = src
				return
			}
			results[idx] = hosted
		}(idx, src)
	}

	wg.Wait()
	return results
}
