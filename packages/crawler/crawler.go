package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"scriptscraper/packages/config"
	"scriptscraper/packages/domain"

	"github.com/PuerkitoBio/goquery"
)

// Fetcher retrieves the raw document behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.Page, error)
}

type Crawler struct {
	fetcher Fetcher
}

func New(fetcher Fetcher) *Crawler {
	return &Crawler{fetcher: fetcher}
}

// NewFetcher builds the Fetcher selected by cfg.FetchMode.
func NewFetcher(cfg config.Config) (Fetcher, error) {
	switch cfg.FetchMode {
	case config.FetchModeHTTP:
		return NewHTTPFetcher(cfg.FetchTimeout, cfg.UserAgent), nil
	case config.FetchModeBrowser:
		return NewBrowserFetcher(cfg.FetchTimeout, cfg.UserAgent), nil
	}
	return nil, fmt.Errorf("unknown fetch mode %q", cfg.FetchMode)
}

func (c *Crawler) FetchAndParse(ctx context.Context, rawURL string) (*domain.ParsedPage, error) {
	start := time.Now()
	page, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	parsed, err := Parse(page)
	if err != nil {
		return nil, err
	}
	slog.Debug("Fetched and parsed page",
		"url", rawURL,
		"final_url", page.FinalURL,
		"status_code", page.StatusCode,
		"bytes", len(page.Body),
		"elapsed", time.Since(start),
	)
	if parsed.IsCSR {
		slog.Warn("Page looks client-side rendered; FETCH_MODE=browser may be needed", "url", rawURL)
	}
	return parsed, nil
}

// Parse builds a queryable document from a fetched page.
func Parse(page *domain.Page) (*domain.ParsedPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, domain.NewFault(domain.ParseFault, "parse html", page.RequestURL, err)
	}
	return &domain.ParsedPage{Page: *page, Doc: doc, IsCSR: looksClientRendered(doc)}, nil
}

func looksClientRendered(doc *goquery.Document) bool {
	if doc.Find("#root, #app, [data-reactroot]").Length() > 0 && len(strings.TrimSpace(doc.Find("body").Text())) < 250 {
		return true
	}
	return doc.Find("template[data-dgst='BAILOUT_TO_CLIENT_SIDE_RENDERING']").Length() > 0
}
