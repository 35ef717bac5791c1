package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"net/url"
	"slices"
	"time"

	"golang.org/x/net/html/charset"
)

// HTTP client and header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	// HTTP client with timeout
	client = &http.Client{
		Timeout: 60 * time.Second,
	}
)

// BlockStatuses are status codes that indicate the origin is refusing
// plain HTTP clients and a rendered fetch should be tried instead.
var BlockStatuses = []int{http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable, 430}

// IsBlockStatus reports whether the status code indicates bot blocking
func IsBlockStatus(status int) bool {
	return slices.Contains(BlockStatuses, status)
}

// OriginOf returns the scheme://host origin of a URL, or an empty string
func OriginOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// FetchWithBrowserHeaders sends an HTTP GET request with browser-like headers,
// converts the response body to UTF-8 (if needed), and returns it together
// with the response status code. A non-2xx status is returned as an error,
// but the status code is still reported so callers can classify blocks.
func FetchWithBrowserHeaders(ctx context.Context, pageURL string, timeout time.Duration) ([]byte, int, error) {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	// Set browser-like headers; the referer points at the album origin so
	// the request looks like in-site navigation.
	req.Header.Set("User-Agent", userAgents[rnd.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,zh-CN;q=0.8,zh;q=0.7")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Priority", "u=0, i")
	req.Header.Set("upgrade-insecure-requests", "1")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	req.Header.Set("Sec-Fetch-User", "?1")
	if origin := OriginOf(pageURL); origin != "" {
		req.Header.Set("Referer", origin+"/")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if IsBlockStatus(resp.StatusCode) {
			retryAfter := resp.Header.Get("Retry-After")
			return nil, resp.StatusCode, fmt.Errorf("blocked with status %d; retry after %q", resp.StatusCode, retryAfter)
		}
		return nil, resp.StatusCode, fmt.Errorf("fetch %s unexpected status code: %d", pageURL, resp.StatusCode)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	utf8Bytes, err := ToUTF8(bodyBytes, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return utf8Bytes, resp.StatusCode, nil
}

// ToUTF8 converts body bytes to UTF-8 based on the Content-Type header
// and the body content itself.
func ToUTF8(body []byte, contentType string) ([]byte, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || name == "UTF-8" {
		return body, nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}
	return buf.Bytes(), nil
}
