package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scriptscraper/packages/domain"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders pages in headless Chrome before handing back the DOM.
// Each Fetch starts and tears down its own browser.
type BrowserFetcher struct {
	timeout time.Duration
	opts    []chromedp.ExecAllocatorOption
}

func NewBrowserFetcher(timeout time.Duration, userAgent string) *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.UserAgent(userAgent),
	)
	return &BrowserFetcher{timeout: timeout, opts: opts}
}

func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string) (*domain.Page, error) {
	slog.Debug("Starting browser fetch", "url", rawURL)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.opts...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()
	if b.timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, b.timeout)
		defer cancel()
	}

	resp, err := chromedp.RunResponse(tabCtx, chromedp.Navigate(rawURL))
	if err != nil {
		return nil, domain.NewFault(domain.NetworkFault, "navigate", rawURL, err)
	}

	page := &domain.Page{RequestURL: rawURL, FinalURL: rawURL}
	if resp != nil {
		page.StatusCode = int(resp.Status)
		page.ContentType = resp.MimeType
		if resp.URL != "" {
			page.FinalURL = resp.URL
		}
		if page.StatusCode < 200 || page.StatusCode >= 300 {
			return nil, domain.NewFault(domain.NetworkFault, "navigate", rawURL,
				fmt.Errorf("%w: %d", domain.ErrBadStatus, page.StatusCode))
		}
	}

	var html string
	if err := chromedp.Run(tabCtx,
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return nil, domain.NewFault(domain.NetworkFault, "render", rawURL, err)
	}
	page.Body = []byte(html)
	return page, nil
}
