package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"salescli/internal/analysis"
	"salescli/internal/cleaning"
	apperrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
)

// Result describes what an export run produced.
type Result struct {
	Format string   `json:"format"` // "excel" or "csv"
	Files  []string `json:"files"`
}

// workbookWriter is the primary export target. Satisfied by ExcelWriter.
type workbookWriter interface {
	Write(path string, dataset *cleaning.Dataset, report analysis.Report, summary analysis.Summary) error
}

// Exporter writes one run's results, attempting the Excel workbook first
// and falling back to the CSV file set when the workbook writer fails.
type Exporter struct {
	outDir   string
	workbook workbookWriter
	csv      *CSVWriter
	logger   *slog.Logger

	// now is swappable in tests for deterministic filenames.
	now func() time.Time
}

// New creates an exporter rooted at the given output directory.
func New(outDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Exporter{
		outDir:   outDir,
		workbook: NewExcelWriter(logger),
		csv:      NewCSVWriter(outDir),
		logger:   logger,
		now:      time.Now,
	}
}

// Export writes the combined report, cleaned dataset and summary. On any
// failure of the Excel writer specifically it falls back to the CSV writer;
// data is never silently lost — the caller gets either a Result or an error.
func (e *Exporter) Export(dataset *cleaning.Dataset, report analysis.Report, summary analysis.Summary) (*Result, error) {
	timestamp := e.now().Format("20060102_150405")

	excelPath := filepath.Join(e.outDir, fmt.Sprintf("sales_analysis_%s.xlsx", timestamp))
	err := e.workbook.Write(excelPath, dataset, report, summary)
	if err == nil {
		return &Result{Format: "excel", Files: []string{excelPath}}, nil
	}

	e.logger.Warn("Excel export failed, falling back to CSV",
		slog.String("path", excelPath),
		slog.String("error", err.Error()))

	return e.exportCSV(timestamp, dataset, report, summary)
}

// exportCSV writes the CSV fallback set: the cleaned data, one CSV per
// analysis table and a plain-text summary report.
func (e *Exporter) exportCSV(timestamp string, dataset *cleaning.Dataset, report analysis.Report, summary analysis.Summary) (*Result, error) {
	result := &Result{Format: "csv"}

	// The cleaned dataset is the one unbounded output, so it is streamed
	// row by row instead of materialized as a [][]string.
	cleanedFile := fmt.Sprintf("cleaned_data_%s.csv", timestamp)
	stream, err := e.csv.CreateStreamWriter(cleanedFile, cleanedDataHeaders)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create cleaned data CSV", err)
	}
	for _, rec := range dataset.Records {
		if err := stream.WriteRecord(recordRow(rec)); err != nil {
			stream.Close()
			return nil, apperrors.NewStorageError("failed to write cleaned data CSV", err)
		}
	}
	if err := stream.Close(); err != nil {
		return nil, apperrors.NewStorageError("failed to write cleaned data CSV", err)
	}
	result.Files = append(result.Files, filepath.Join(e.outDir, cleanedFile))

	for _, name := range []string{analysis.ByCategory, analysis.ByRegion, analysis.BySalesRep, analysis.ByTime} {
		table, ok := report[name]
		if !ok {
			continue
		}
		filename := fmt.Sprintf("%s_%s.csv", name, timestamp)
		rows := make([][]string, 0, len(table.Rows))
		for _, row := range table.Rows {
			rows = append(rows, analysisRow(row))
		}
		headers := append([]string{table.Dimension}, analysisHeaders[1:]...)
		if err := e.csv.WriteSimpleCSV(filename, headers, rows); err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to write %s CSV", name), err)
		}
		result.Files = append(result.Files, filepath.Join(e.outDir, filename))
	}

	summaryPath, err := e.writeTextSummary(timestamp, summary)
	if err != nil {
		return nil, err
	}
	result.Files = append(result.Files, summaryPath)

	e.logger.Info("CSV export complete",
		slog.Int("files", len(result.Files)))

	return result, nil
}

// writeTextSummary writes the plain-text top-line report.
func (e *Exporter) writeTextSummary(timestamp string, summary analysis.Summary) (string, error) {
	path := filepath.Join(e.outDir, fmt.Sprintf("summary_%s.txt", timestamp))

	if err := os.MkdirAll(e.outDir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create summary file", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "SALES ANALYSIS SUMMARY")
	fmt.Fprintln(file, "======================")
	fmt.Fprintln(file)
	fmt.Fprintf(file, "Total revenue:  %s\n", money(summary.TotalRevenue))
	fmt.Fprintf(file, "Total profit:   %s\n", money(summary.TotalProfit))
	fmt.Fprintf(file, "Transactions:   %d\n", summary.Transactions)
	fmt.Fprintf(file, "Date range:     %s to %s\n",
		summary.DateMin.Format("2006-01-02"), summary.DateMax.Format("2006-01-02"))
	fmt.Fprintf(file, "Generated at:   %s\n", e.now().Format("2006-01-02 15:04:05"))

	return path, nil
}
