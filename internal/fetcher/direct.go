package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"brkicks/importworker/helpers"
	apperr "brkicks/importworker/pkg/errors"
)

// NewDirectStrategy fetches the page with a plain HTTP GET using
// browser-like headers. Block responses surface as rate limit errors so
// the chain can flag the host and the next strategy takes over.
func NewDirectStrategy(timeout time.Duration) Strategy {
	return Strategy{
		Name: "direct",
		Fetch: func(ctx context.Context, pageURL string) (string, error) {
			body, status, err := helpers.FetchWithBrowserHeaders(ctx, pageURL, timeout)
			if err != nil {
				if status == http.StatusTooManyRequests || status == 430 {
					host := ""
					if u, parseErr := url.Parse(pageURL); parseErr == nil {
						host = u.Host
					}
					return "", apperr.NewRateLimit(host, 0)
				}
				return "", fmt.Errorf("direct fetch: %w", err)
			}
			return string(body), nil
		},
	}
}
