package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"brkicks/importworker/helpers"
)

// allOriginsBase relays the target page through a public CORS proxy.
// Last resort when both the direct and rendered fetches are blocked.
const allOriginsBase = "https://api.allorigins.win/raw?url="

// NewProxyStrategy fetches the page through the allorigins relay
func NewProxyStrategy(timeout time.Duration) Strategy {
	return Strategy{
		Name: "proxy",
		Fetch: func(ctx context.Context, pageURL string) (string, error) {
			proxied := allOriginsBase + url.QueryEscape(pageURL)
			body, _, err := helpers.FetchWithBrowserHeaders(ctx, proxied, timeout)
			if err != nil {
				return "", fmt.Errorf("proxy fetch: %w", err)
			}
			return string(body), nil
		},
	}
}
