package rehost

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeUploader rewrites URLs onto a fake CDN, failing selected ones
type fakeUploader struct {
	mu       sync.Mutex
	failFor  map[string]bool
	inFlight int32
	peak     int32
}

func (f *fakeUploader) Upload(_ context.Context, albumID, imageURL string) (string, error) {
	current := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)

	f.mu.Lock()
	if current > f.peak {
		f.peak = current
	}
	fail := f.failFor[imageURL]
	f.mu.Unlock()

	if fail {
		return "", errors.New("upload rejected")
	}
	return "https://cdn.shop.example/" + albumID + "/" + imageURL[strings.LastIndex(imageURL, "/")+1:], nil
}

func sourceURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://photo.yupoo.com/a/%d.jpg", i)
	}
	return urls
}

func TestRehostRewritesAll(t *testing.T) {
	up := &fakeUploader{}
	got := Rehost(context.Background(), up, "123", sourceURLs(4))

	assert.Equal(t, []string{
		"https://cdn.shop.example/123/0.jpg",
		"https://cdn.shop.example/123/1.jpg",
		"https://cdn.shop.example/123/2.jpg",
		"https://cdn.shop.example/123/3.jpg",
	}, got)
}

func TestRehostFailureFallsBackToSource(t *testing.T) {
	up := &fakeUploader{failFor: map[string]bool{
		"https://photo.yupoo.com/a/1.jpg": true,
	}}
	got := Rehost(context.Background(), up, "123", sourceURLs(3))

	assert.Equal(t, []string{
		"https://cdn.shop.example/123/0.jpg",
		"https://photo.yupoo.com/a/1.jpg",
		"https://cdn.shop.example/123/2.jpg",
	}, got)
}

func TestRehostCapsImageCount(t *testing.T) {
	up := &fakeUploader{}
	got := Rehost(context.Background(), up, "123", sourceURLs(20))
	assert.Len(t, got, MaxImages)
}

func TestRehostBoundedConcurrency(t *testing.T) {
	up := &fakeUploader{}
	Rehost(context.Background(), up, "123", sourceURLs(12))
	assert.LessOrEqual(t, up.peak, int32(maxConcurrent))
}

func TestRehostNilUploader(t *testing.T) {
	urls := sourceURLs(2)
	assert.Equal(t, urls, Rehost(context.Background(), nil, "123", urls))
}
