// Command report turns previously fetched CVM datasets into the net-flow
// snapshot report. It parses every downloaded informe archive, deduplicates
// and windows the flows, cuts the latest-date snapshot, joins fund names
// from the registry, and writes the CSV, Excel and PDF outputs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"fundflow/internal/config"
	"fundflow/internal/cvm"
	"fundflow/internal/exporter"
	"fundflow/internal/flow"
	"fundflow/internal/infrastructure"
	"fundflow/internal/registry"
	"fundflow/internal/report"
)

func main() {
	_ = godotenv.Load()

	dataDir := flag.String("data", "", "data directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
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
		logger.ErrorContext(ctx, "Report generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	start := time.Now()

	records, err := loadInformes(ctx, cfg.DownloadsDir(), logger)
	if err != nil {
		return err
	}

	names, err := loadRegistry(ctx, cfg.DownloadsDir(), logger)
	if err != nil {
		return err
	}

	rows, stats, err := report.NewBuilder(logger).Build(ctx, records, names)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	base := filepath.Join(cfg.ReportsDir(), cfg.Report.BaseName)
	if err := exporter.WriteCSV(base+".csv", rows); err != nil {
		return fmt.Errorf("export CSV: %w", err)
	}
	if err := exporter.WriteWorkbook(base+".xlsx", rows); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}
	if err := exporter.WritePDF(base+".pdf", rows, cfg.Report.RowsPerPDFPage); err != nil {
		return fmt.Errorf("export PDF: %w", err)
	}

	logger.InfoContext(ctx, "report generated",
		slog.Time("as_of", stats.AsOf),
		slog.Int("rows", len(rows)),
		slog.Int("raw_records", stats.RawRecords),
		slog.Int("daily_flows", stats.DailyFlows),
		slog.Int("dropped_no_date", stats.DroppedNoDate),
		slog.Int("invalid_flows", stats.InvalidFlows),
		slog.Int("dropped_unnamed", stats.DroppedUnnamed),
		slog.String("output_base", base),
		slog.Duration("elapsed", time.Since(start)),
	)

	printSummary(rows, stats)
	return nil
}

// loadInformes parses every downloaded informe archive, oldest first
func loadInformes(ctx context.Context, dir string, logger *slog.Logger) ([]flow.Record, error) {
	if logger == nil {
		logger = slog.Default()
	}

	archives, err := filepath.Glob(filepath.Join(dir, "inf_diario_fi_*.zip"))
	if err != nil {
		return nil, fmt.Errorf("list informe archives: %w", err)
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("no informe archives in %s (run the fetcher first)", dir)
	}
	sort.Strings(archives)

	var records []flow.Record
	for _, path := range archives {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read archive %s: %w", path, err)
		}
		parsed, err := cvm.ParseInformeArchive(ctx, data, logger)
		if err != nil {
			return nil, fmt.Errorf("parse archive %s: %w", path, err)
		}
		records = append(records, parsed...)
	}

	logger.InfoContext(ctx, "loaded informe archives",
		slog.Int("archives", len(archives)),
		slog.Int("records", len(records)),
	)
	return records, nil
}

// loadRegistry parses the fund registry CSV
func loadRegistry(ctx context.Context, dir string, logger *slog.Logger) (*registry.Registry, error) {
	path := filepath.Join(dir, "cad_fi.csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fund registry %s (run the fetcher first): %w", path, err)
	}
	defer file.Close()

	names, err := registry.Parse(ctx, file, logger)
	if err != nil {
		return nil, fmt.Errorf("parse fund registry: %w", err)
	}
	return names, nil
}

// printSummary prints a short operator-facing digest to stdout
func printSummary(rows []report.Row, stats report.Stats) {
	fmt.Println("\n=== CAPTACAO LIQUIDA DE FUNDOS FI ===")
	if stats.AsOf.IsZero() {
		fmt.Println("No data available.")
		return
	}
	fmt.Printf("As of:          %s\n", stats.AsOf.Format("02/01/2006"))
	fmt.Printf("Funds reported: %d\n", len(rows))
	fmt.Printf("Raw records:    %d (%d without date, %d invalid flows)\n",
		stats.RawRecords, stats.DroppedNoDate, stats.InvalidFlows)
	if stats.DroppedUnnamed > 0 {
		fmt.Printf("Unnamed funds dropped: %d\n", stats.DroppedUnnamed)
	}

	top := make([]report.Row, len(rows))
	copy(top, rows)
	sort.Slice(top, func(i, j int) bool { return top[i].Sum180 > top[j].Sum180 })
	if len(top) > 10 {
		top = top[:10]
	}

	fmt.Println("\nTop funds by 180-day net inflow:")
	for _, r := range top {
		name := r.FundName
		if len(name) > 60 {
			name = name[:57] + "..."
		}
		fmt.Printf("%-60s %15.2f\n", name, r.Sum180)
	}
}
