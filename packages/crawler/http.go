package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scriptscraper/packages/domain"

	"github.com/go-resty/resty/v2"
)

// HTTPFetcher issues one plain GET per page. No retries.
type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*domain.Page, error) {
	slog.Debug("Starting page fetch", "url", rawURL)

	res, err := f.client.R().
		SetContext(ctx).
		Get(rawURL)
	if err != nil {
		return nil, domain.NewFault(domain.NetworkFault, "fetch", rawURL, err)
	}

	if !res.IsSuccess() {
		slog.Debug("Fetch returned bad status code", "url", rawURL, "status_code", res.StatusCode())
		return nil, domain.NewFault(domain.NetworkFault, "fetch", rawURL,
			fmt.Errorf("%w: %d", domain.ErrBadStatus, res.StatusCode()))
	}

	finalURL := rawURL
	if raw := res.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	return &domain.Page{
		RequestURL:  rawURL,
		FinalURL:    finalURL,
		StatusCode:  res.StatusCode(),
		ContentType: res.Header().Get("Content-Type"),
		Body:        res.Body(),
	}, nil
}
