// Command fetcher downloads the CVM datasets the report needs: one zipped
// daily informe archive per trailing month, plus the fund registry CSV.
// Files land in the configured downloads directory for cmd/report to pick
// up; the fetcher itself never parses them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fundflow/internal/config"
	"fundflow/internal/cvm"
	"fundflow/internal/infrastructure"
)

func main() {
	_ = godotenv.Load()

	months := flag.Int("months", 0, "trailing months to download (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *months > 0 {
		cfg.CVM.MonthsBack = *months
	}

	logger, closeLog, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Error("Failed to prepare directories", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.WithRunID(context.Background(), uuid.NewString())

	if err := run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "Fetch failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client := cvm.NewClient(cvm.ClientConfig{
		BaseURL:           cfg.CVM.BaseURL,
		RequestTimeout:    cfg.CVM.RequestTimeout,
		RequestsPerSecond: cfg.CVM.RequestsPerSecond,
		Burst:             cfg.CVM.Burst,
	}, logger)

	months := cvm.LastMonths(cfg.CVM.MonthsBack, time.Now())
	logger.InfoContext(ctx, "fetching informe archives",
		slog.Int("months", len(months)),
		slog.String("oldest", months[len(months)-1]),
		slog.String("newest", months[0]),
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.CVM.DownloadWorkers)

	for _, month := range months {
		month := month
		g.Go(func() error {
			data, err := client.DownloadInforme(gctx, month)
			if err != nil {
				return fmt.Errorf("download informe %s: %w", month, err)
			}

			path := filepath.Join(cfg.DownloadsDir(), fmt.Sprintf("inf_diario_fi_%s.zip", month))
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("save informe %s: %w", month, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	registry, err := client.DownloadRegistry(ctx)
	if err != nil {
		return fmt.Errorf("download fund registry: %w", err)
	}
	registryPath := filepath.Join(cfg.DownloadsDir(), "cad_fi.csv")
	if err := os.WriteFile(registryPath, registry, 0644); err != nil {
		return fmt.Errorf("save fund registry: %w", err)
	}

	logger.InfoContext(ctx, "fetch completed",
		slog.Int("archives", len(months)),
		slog.String("registry", registryPath),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
