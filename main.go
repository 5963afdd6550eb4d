// Package main
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scriptscraper/packages/config"
	"scriptscraper/packages/crawler"
	"scriptscraper/packages/domain"
	"scriptscraper/packages/logging"
	"scriptscraper/packages/metrics"
	"scriptscraper/packages/pipeline"
	"scriptscraper/packages/progress"
	"scriptscraper/packages/storage"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type flagValues struct {
	url         string
	root        string
	outDir      string
	followLinks bool
	fetchMode   string
	timeout     time.Duration
	metricsAddr string
	progress    bool
	logLevel    string
	logFormat   string
}

func newRootCmd(stdout io.Writer, flags *flagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scriptscraper",
		Short:         "Saves a movie transcript page to <title>.txt and visits the pages it links to.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, stdout)
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		slog.Error("Invalid command line", "error", err)
		return err
	})

	f := cmd.Flags()
	f.StringVar(&flags.url, "url", "", "transcript page to scrape (START_URL)")
	f.StringVar(&flags.root, "root", "", "prefix for followed links (LINK_ROOT)")
	f.StringVar(&flags.outDir, "out-dir", "", "directory for the transcript file (OUTPUT_DIR)")
	f.BoolVar(&flags.followLinks, "follow-links", true, "fetch every collected link (FOLLOW_LINKS)")
	f.StringVar(&flags.fetchMode, "fetch-mode", "", "http or browser (FETCH_MODE)")
	f.DurationVar(&flags.timeout, "timeout", 0, "per-page fetch timeout (FETCH_TIMEOUT)")
	f.StringVar(&flags.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (METRICS_ADDR)")
	f.BoolVar(&flags.progress, "progress", false, "show a spinner on stderr (PROGRESS)")
	f.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	f.StringVar(&flags.logFormat, "log-format", "", "json or console (LOG_FORMAT)")
	return cmd
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, flags *flagValues, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("url") {
		cfg.StartURL = flags.url
	}
	if changed("root") {
		cfg.LinkRoot = flags.root
	}
	if changed("out-dir") {
		cfg.OutputDir = flags.outDir
	}
	if changed("follow-links") {
		cfg.FollowLinks = flags.followLinks
	}
	if changed("fetch-mode") {
		cfg.FetchMode = flags.fetchMode
	}
	if changed("timeout") {
		cfg.FetchTimeout = flags.timeout
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = flags.metricsAddr
	}
	if changed("progress") {
		cfg.Progress = flags.progress
	}
	if changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = flags.logFormat
	}
}

// loadConfig layers explicitly set flags over the environment and validates the result.
func loadConfig(cmd *cobra.Command, flags *flagValues) (config.Config, error) {
	cfg := config.FromEnv()
	applyFlags(cmd, flags, &cfg)
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, flags *flagValues, stdout io.Writer) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return err
	}

	_, logCloser, err := logging.Setup(cfg, stdout)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		return err
	}
	defer logCloser.Close()

	slog.Info("--- Starting scriptscraper ---", "fetch_mode", cfg.FetchMode, "output_dir", cfg.OutputDir)

	fetcher, err := crawler.NewFetcher(cfg)
	if err != nil {
		slog.Error("Failed to create fetcher", "error", err)
		return err
	}
	st, err := storage.New(cfg.OutputDir)
	if err != nil {
		slog.Error("Failed to prepare output directory", "error", err)
		return err
	}

	var opts []pipeline.Option
	if cfg.Progress {
		spin := progress.New(os.Stderr)
		defer spin.Stop()
		opts = append(opts, pipeline.WithProgress(spin))
	}
	pl := pipeline.New(cfg, fetcher, st, opts...)

	g, gCtx := errgroup.WithContext(cmd.Context())
	metricsCtx, stopMetrics := context.WithCancel(gCtx)
	defer stopMetrics()

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			// Serve logs its own failure; the scrape carries on without metrics.
			_ = metrics.Serve(metricsCtx, cfg.MetricsAddr)
			return nil
		})
	}

	var res *domain.RunResult
	g.Go(func() error {
		defer stopMetrics()
		var runErr error
		res, runErr = pl.Run(gCtx)
		return runErr
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Info("Shutdown signal received. Exiting...")
			return err
		}
		kind, _ := domain.KindOf(err)
		slog.Error("Scrape failed", "kind", kind, "error", err)
		return err
	}
	slog.Info("Scrape complete",
		"title", res.Transcript.Title,
		"path", res.OutputPath,
		"bytes", res.BytesWritten,
		"links", len(res.Links),
		"links_visited", res.LinksVisited,
	)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, &flagValues{}).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(domain.ExitCode(err))
	}
}
