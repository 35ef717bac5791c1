package fetcher

import (
	"context"
	"net/url"
	"time"

	"brkicks/importworker/logger"
	apperr "brkicks/importworker/pkg/errors"
	"brkicks/importworker/services/cache"
)

// Page is a fetched album page
type Page struct {
	URL      string
	HTML     string
	Strategy string
}

// Fetcher fetches a page by URL
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Page, error)
}

// Strategy is a named way of fetching a page. Strategies are tried in
// declaration order; an error moves on to the next one.
type Strategy struct {
	Name  string
	Fetch func(ctx context.Context, pageURL string) (string, error)
}

// ChainFetcher tries an ordered list of strategies until one succeeds
type ChainFetcher struct {
	strategies []Strategy
	limiter    *cache.HostLimiter
	pageTTL    time.Duration
	log        *logger.Logger
}

// Option configures a ChainFetcher
type Option func(*ChainFetcher)

// WithLimiter sets the per-host rate limiter and page cache
func WithLimiter(limiter *cache.HostLimiter) Option {
	return func(f *ChainFetcher) {
		f.limiter = limiter
	}
}

// WithPageCacheTTL sets how long fetched pages are cached
func WithPageCacheTTL(ttl time.Duration) Option {
	return func(f *ChainFetcher) {
		f.pageTTL = ttl
	}
}

// NewChainFetcher creates a fetcher that tries the given strategies in order
func NewChainFetcher(strategies []Strategy, opts ...Option) *ChainFetcher {
	f := &ChainFetcher{
		strategies: strategies,
		pageTTL:    time.Minute,
		log:        logger.ForFetcher(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch tries each strategy in order and returns the first successful page.
// A fetch error is returned only when every strategy has failed.
func (f *ChainFetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return nil, apperr.NewValidation(pageURL, "malformed page URL")
	}
	host := parsed.Host

	if f.limiter.IsLimited(host) {
		f.log.Warn().Str("host", host).Msg("Host is rate limited, skipping fetch")
		return nil, apperr.NewRateLimit(host, f.limiter.TTL())
	}

	if body, ok := f.limiter.GetPage(pageURL); ok {
		f.log.Debug().Str("url", pageURL).Msg("Page served from cache")
		return &Page{URL: pageURL, HTML: string(body), Strategy: "cache"}, nil
	}

	var lastErr error
	for _, strategy := range f.strategies {
		f.log.Debug().
			Str("strategy", strategy.Name).
			Str("url", pageURL).
			Msg("Trying fetch strategy")

		html, err := strategy.Fetch(ctx, pageURL)
		if err != nil {
			f.log.Warn().
				Str("strategy", strategy.Name).
				Str("url", pageURL).
				Err(err).
				Msg("Fetch strategy failed")
			lastErr = err

			if apperr.IsRateLimit(err) {
				if limitErr := f.limiter.Limit(host); limitErr != nil {
					f.log.Error().Err(limitErr).Str("host", host).Msg("Failed to set rate limit flag")
				}
			}
			continue
		}

		f.log.Info().
			Str("strategy", strategy.Name).
			Str("url", pageURL).
			Int("bytes", len(html)).
			Msg("Page fetched")

		if err := f.limiter.PutPage(pageURL, []byte(html), f.pageTTL); err != nil {
			f.log.Debug().Err(err).Msg("Failed to cache page")
		}

		return &Page{URL: pageURL, HTML: html, Strategy: strategy.Name}, nil
	}

	return nil, apperr.NewFetch(pageURL, "all fetch strategies failed", lastErr)
}
