package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"

	"salescli/internal/analysis"
	"salescli/internal/cleaning"
	"salescli/internal/config"
	"salescli/internal/exporter"
	"salescli/internal/files"
	"salescli/internal/infrastructure"
	"salescli/internal/loader"
	"salescli/internal/sampledata"
	"salescli/internal/schema"
)

func main() {
	inFile := flag.String("in", "", "input sales file (.csv or .xlsx)")
	outDir := flag.String("out", "", "output directory for reports (defaults to config output.dir)")
	configFile := flag.String("config", "salescli.yaml", "optional YAML config file")
	sample := flag.Bool("sample", false, "generate sample data first and analyze it")
	sampleRows := flag.Int("sample-rows", 500, "number of sample rows to generate")
	seed := flag.Int64("seed", 42, "random seed for sample data generation")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if *outDir == "" {
		*outDir = cfg.Output.Dir
	}

	if *sample {
		path := *inFile
		if path == "" {
			path = "sample_sales_data.csv"
		}
		generator := sampledata.New(*seed)
		if err := generator.WriteCSV(path, *sampleRows, logger); err != nil {
			logger.Error("Failed to generate sample data", "error", err)
			os.Exit(1)
		}
		*inFile = path
	}

	// Without an explicit input, fall back to the newest sales file in the
	// working directory.
	if *inFile == "" {
		discovered, err := files.NewDiscovery(".").Latest()
		if err != nil {
			fmt.Fprintln(os.Stderr, "usage: analyzer -in <file.csv|file.xlsx> [-out dir] [-sample]")
			flag.PrintDefaults()
			os.Exit(2)
		}
		logger.Info("Using discovered input file", "path", discovered)
		*inFile = discovered
	}

	if err := run(cfg, logger, *inFile, *outDir); err != nil {
		logger.Error("Analysis run failed", "error", err)
		os.Exit(1)
	}
}

// run executes one full analysis pass: load, clean, summarize, aggregate,
// export.
func run(cfg *config.Config, logger *slog.Logger, inFile, outDir string) error {
	ctx := context.Background()

	table, err := loader.Load(inFile, logger)
	if err != nil {
		return err
	}

	minDate, maxDate, err := cfg.Cleaning.DateRange()
	if err != nil {
		return err
	}

	validator := schema.NewValidator(minDate, maxDate)
	cleaner := cleaning.NewCleaner(validator, decimal.NewFromFloat(cfg.Cleaning.AmountTolerance), logger)

	dataset, report, err := cleaner.Clean(ctx, table)
	if err != nil {
		return err
	}
	ctx = infrastructure.WithRunID(ctx, report.RunID)

	logger.InfoContext(ctx, "cleaning report",
		slog.Int("accepted", report.Accepted),
		slog.Int("coerced", report.Coerced),
		slog.Int("rejected", report.Rejected),
		slog.Any("rejected_by_reason", report.RejectedByReason),
		slog.Int("duplicates_dropped", report.DuplicatesDropped),
		slog.Int("derived_conflicts", report.DerivedConflicts))

	summary := analysis.Summarize(dataset)
	logger.InfoContext(ctx, "dataset summary",
		slog.Int("transactions", summary.Transactions),
		slog.Int("distinct_products", summary.DistinctProducts),
		slog.String("date_min", summary.DateMin.Format("2006-01-02")),
		slog.String("date_max", summary.DateMax.Format("2006-01-02")),
		slog.String("total_revenue", summary.TotalRevenue.StringFixed(2)),
		slog.String("total_profit", summary.TotalProfit.StringFixed(2)))

	analyzer := analysis.NewAnalyzer(dataset, logger)
	combined := analyzer.Report()

	for _, name := range []string{analysis.ByCategory, analysis.ByRegion, analysis.BySalesRep, analysis.ByTime} {
		if tbl, ok := combined[name]; ok && len(tbl.Rows) > 0 {
			top := tbl.Rows[0]
			logger.InfoContext(ctx, "analysis computed",
				slog.String("analysis", name),
				slog.Int("groups", len(tbl.Rows)),
				slog.String("top_key", top.Key),
				slog.String("top_revenue", top.TotalRevenue.StringFixed(2)))
		}
	}

	result, err := exporter.New(outDir, logger).Export(dataset, combined, summary)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "export complete",
		slog.String("format", result.Format),
		slog.Any("files", result.Files))

	return nil
}
