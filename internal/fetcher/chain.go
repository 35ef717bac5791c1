package fetcher

import (
	"brkicks/importworker/config"
	"brkicks/importworker/services/cache"
)

// NewFromConfig assembles the standard strategy chain: direct HTTP
// first, a rendered browser fetch when enabled, then the public proxy.
// The returned BrowserFetcher is nil when the browser is disabled.
func NewFromConfig(cfg *config.Config, cacheSvc cache.CacheService) (*ChainFetcher, *BrowserFetcher) {
	limiter := cache.NewHostLimiter(cacheSvc, cfg.RateLimitTTL)

	strategies := []Strategy{
		NewDirectStrategy(cfg.FetchTimeout),
	}

	var browser *BrowserFetcher
	if cfg.BrowserEnabled {
		browser = NewBrowserFetcher(cfg.BrowserWSURL, cfg.BrowserTimeout)
		strategies = append(strategies, browser.Strategy())
	}

	strategies = append(strategies, NewProxyStrategy(cfg.FetchTimeout))

	return NewChainFetcher(strategies, WithLimiter(limiter)), browser
}
