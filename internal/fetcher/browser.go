package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/jaki95/spotify-scraper/internal/domain"
)

// stateSelector matches any script element that carries hydration state.
const stateSelector = `script#__NEXT_DATA__, script#initial-state, script#resource`

// BrowserFetcher renders pages in headless Chrome so script-built markup is
// present. Each Fetch starts its own browser process; a BrowserFetcher must
// still only be driven from one flow at a time.
type BrowserFetcher struct {
	opts Options
}

func NewBrowserFetcher(opts Options) *BrowserFetcher {
	return &BrowserFetcher{opts: opts}
}

func (f *BrowserFetcher) Name() string {
	return "browser"
}

// Fetch navigates to pageURL, waits for the state script and returns the
// rendered document.
func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, f.allocatorOptions()...)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()

	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, f.opts.Timeout)
		defer cancel()
	}

	var html string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(f.headers()),
		chromedp.ActionFunc(f.setCookies),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(stateSelector, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("%w: browser fetch of %s: %v", domain.ErrNetwork, pageURL, err)
	}

	slog.Debug("Rendered page", "url", pageURL, "bytes", len(html))
	return html, nil
}

func (f *BrowserFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.UserAgent(f.opts.UserAgent),
		chromedp.Flag("headless", f.opts.Headless),
	)
	if f.opts.Proxy != "" {
		opts = append(opts, chromedp.ProxyServer(f.opts.Proxy))
	}
	if f.opts.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(f.opts.BrowserPath))
	}
	return opts
}

func (f *BrowserFetcher) headers() network.Headers {
	headers := network.Headers{}
	for k, v := range mergedHeaders(f.opts.Headers) {
		headers[k] = v
	}
	return headers
}

func (f *BrowserFetcher) setCookies(ctx context.Context) error {
	for name, value := range f.opts.Cookies {
		err := network.SetCookie(name, value).
			WithDomain(".spotify.com").
			WithPath("/").
			WithSecure(true).
			Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to set cookie %s: %w", name, err)
		}
	}
	return nil
}
