package fetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"brkicks/importworker/logger"
)

// Autoscroll pacing. Album pages lazy-load images as the viewport
// moves, so the page is walked down in fixed steps with short pauses.
const (
	scrollStep     = 400
	scrollPause    = 300 * time.Millisecond
	maxScrollSteps = 40
)

// BrowserFetcher renders pages in a headless browser. It connects
// lazily on first use and keeps a single browser for its lifetime.
type BrowserFetcher struct {
	wsURL   string
	timeout time.Duration
	log     *logger.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserFetcher creates a browser fetcher. When wsURL is empty a
// local browser is launched on first use.
func NewBrowserFetcher(wsURL string, timeout time.Duration) *BrowserFetcher {
	return &BrowserFetcher{
		wsURL:   wsURL,
		timeout: timeout,
		log:     logger.ForFetcher(),
	}
}

// Strategy exposes the browser fetcher as a chain strategy
func (b *BrowserFetcher) Strategy() Strategy {
	return Strategy{
		Name:  "browser",
		Fetch: b.FetchRendered,
	}
}

func (b *BrowserFetcher) connect() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return b.browser, nil
	}

	wsURL := b.wsURL
	if wsURL == "" {
		l := launcher.New().
			Headless(true).
			NoSandbox(true).
			Set("disable-dev-shm-usage", "true").
			Set("disable-gpu", "true")
		launched, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		wsURL = launched
	}

	browser := rod.New().ControlURL(wsURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	b.browser = browser
	return browser, nil
}

// FetchRendered navigates to the page with stealth applied, scrolls
// through it so lazy images load, and returns the rendered HTML.
func (b *BrowserFetcher) FetchRendered(ctx context.Context, pageURL string) (string, error) {
	browser, err := b.connect()
	if err != nil {
		return "", err
	}

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		return "", fmt.Errorf("apply stealth: %w", err)
	}

	if err := page.Navigate(pageURL); err != nil {
		return "", fmt.Errorf("navigate: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load: %w", err)
	}

	b.autoScroll(ctx, page)

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("read rendered html: %w", err)
	}
	return html, nil
}

// autoScroll walks down the page in fixed increments until the bottom
// is reached or the step budget runs out.
func (b *BrowserFetcher) autoScroll(ctx context.Context, page *rod.Page) {
	for i := 0; i < maxScrollSteps; i++ {
		if ctx.Err() != nil {
			return
		}

		if _, err := page.Eval(fmt.Sprintf(`() => window.scrollBy(0, %d)`, scrollStep)); err != nil {
			b.log.Debug().Err(err).Msg("Scroll step failed")
			return
		}

		atBottom, err := page.Eval(`() => window.innerHeight + window.scrollY >= document.body.scrollHeight`)
		if err == nil && atBottom.Value.Bool() {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(scrollPause):
		}
	}
}

// Close shuts down the browser if one was started
func (b *BrowserFetcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}
