// Package pipeline runs one scrape: fetch the start page, save its
// transcript, then visit every link found next to it.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"scriptscraper/packages/config"
	"scriptscraper/packages/crawler"
	"scriptscraper/packages/dom"
	"scriptscraper/packages/domain"
	"scriptscraper/packages/extract"
	"scriptscraper/packages/metrics"
)

// TranscriptWriter persists a transcript under its title and reports where
// and how many bytes were written.
type TranscriptWriter interface {
	WriteTranscript(title, text string) (string, int, error)
}

// Progress is told about every page fetch.
type Progress interface {
	Start(url string)
	Done(url string, err error)
}

type noProgress struct{}

func (noProgress) Start(string)       {}
func (noProgress) Done(string, error) {}

type Option func(*Pipeline)

func WithProgress(p Progress) Option {
	return func(pl *Pipeline) {
		if p != nil {
			pl.progress = p
		}
	}
}

type Pipeline struct {
	cfg       config.Config
	crawler   *crawler.Crawler
	writer    TranscriptWriter
	selectors extract.Selectors
	progress  Progress
}

func New(cfg config.Config, fetcher crawler.Fetcher, writer TranscriptWriter, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		crawler:   crawler.New(fetcher),
		writer:    writer,
		selectors: extract.SelectorsFromConfig(cfg),
		progress:  noProgress{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// JoinLink builds the URL visited for an href: root, a slash, then the href
// unchanged.
func JoinLink(root, link string) string {
	return root + "/" + link
}

// Run executes the scrape. The first fault stops it; the returned result then
// holds whatever completed before the fault.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunResult, error) {
	res := &domain.RunResult{StartURL: p.cfg.StartURL}
	slog.Info("Starting scrape", "url", p.cfg.StartURL, "follow_links", p.cfg.FollowLinks)

	page, err := p.fetch(ctx, domain.StartStage, p.cfg.StartURL)
	if err != nil {
		return res, p.fail(err)
	}

	box, err := extract.Container(dom.NewDocument(page.Doc), p.selectors)
	if err != nil {
		return res, p.fail(err)
	}

	tr, err := extract.Transcript(box, p.selectors)
	if err != nil {
		return res, p.fail(err)
	}
	res.Transcript = tr

	path, n, err := p.writer.WriteTranscript(tr.Title, tr.Text)
	if err != nil {
		return res, p.fail(err)
	}
	res.OutputPath = path
	res.BytesWritten = n
	metrics.TranscriptBytes.Add(float64(n))
	slog.Info("Transcript saved", "title", tr.Title, "path", path, "bytes", n, "language", tr.Language)

	links := extract.Links(box)
	res.Links = links
	metrics.LinksCollected.Add(float64(len(links)))
	slog.Info("Collected links", "count", len(links), "links", []string(links))

	if !p.cfg.FollowLinks {
		slog.Info("Link pass disabled", "skipped", len(links))
		return res, nil
	}

	for i, link := range links {
		target := JoinLink(p.cfg.LinkRoot, link)
		if _, err := p.fetch(ctx, domain.LinkStage, target); err != nil {
			slog.Error("Link fetch failed", "index", i, "href", link, "url", target, "error", err)
			return res, p.fail(err)
		}
		res.LinksVisited++
	}

	slog.Info("Scrape finished", "title", tr.Title, "links_visited", res.LinksVisited)
	return res, nil
}

func (p *Pipeline) fetch(ctx context.Context, stage domain.Stage, url string) (*domain.ParsedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewFault(domain.NetworkFault, "fetch", url, err)
	}
	p.progress.Start(url)
	started := time.Now()
	page, err := p.crawler.FetchAndParse(ctx, url)
	metrics.ObserveFetch(string(stage), started, err)
	p.progress.Done(url, err)
	return page, err
}

func (p *Pipeline) fail(err error) error {
	kind, ok := domain.KindOf(err)
	if !ok {
		kind = "other"
	}
	metrics.Faults.WithLabelValues(string(kind)).Inc()
	return err
}
