package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"salescli/internal/analysis"
	"salescli/internal/cleaning"
	apperrors "salescli/internal/errors"
)

// cleanedSheetName is the workbook sheet holding the cleaned dataset.
const cleanedSheetName = "Cleaned Data"

// maxSheetNameLen is Excel's sheet name limit.
const maxSheetNameLen = 31

// ExcelWriter writes one run's full results into a single xlsx workbook.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// Write creates the workbook: the cleaned data sheet, one sheet per analysis
// table and a summary sheet with the top performers and run totals.
func (w *ExcelWriter) Write(path string, dataset *cleaning.Dataset, report analysis.Report, summary analysis.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cleanedSheetName); err != nil {
		return apperrors.NewStorageError("failed to rename cleaned data sheet", err)
	}
	if err := w.writeCleanedSheet(f, dataset); err != nil {
		return err
	}

	// One sheet per analysis, iterating whatever keys are present.
	for _, name := range []string{analysis.ByCategory, analysis.ByRegion, analysis.BySalesRep, analysis.ByTime} {
		table, ok := report[name]
		if !ok {
			continue
		}
		if err := w.writeAnalysisSheet(f, name, table); err != nil {
			return err
		}
	}

	if err := w.writeSummarySheet(f, report, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err)
	}

	w.logger.Info("Excel report saved",
		slog.String("path", path),
		slog.Int("records", len(dataset.Records)))

	return nil
}

// writeCleanedSheet writes the cleaned dataset onto the first sheet.
func (w *ExcelWriter) writeCleanedSheet(f *excelize.File, dataset *cleaning.Dataset) error {
	if err := writeRow(f, cleanedSheetName, 1, cleanedDataHeaders); err != nil {
		return err
	}
	for i, rec := range dataset.Records {
		if err := writeRow(f, cleanedSheetName, i+2, recordRow(rec)); err != nil {
			return err
		}
	}
	return nil
}

// writeAnalysisSheet writes one analysis table onto its own sheet.
func (w *ExcelWriter) writeAnalysisSheet(f *excelize.File, name string, table *analysis.Table) error {
	sheet := name
	if len(sheet) > maxSheetNameLen {
		sheet = sheet[:maxSheetNameLen]
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create sheet %q", sheet), err)
	}

	headers := append([]string{table.Dimension}, analysisHeaders[1:]...)
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeRow(f, sheet, i+2, analysisRow(row)); err != nil {
			return err
		}
	}
	return nil
}

// writeSummarySheet writes the top-line summary: best group per dimension
// plus run totals.
func (w *ExcelWriter) writeSummarySheet(f *excelize.File, report analysis.Report, summary analysis.Summary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewStorageError("failed to create summary sheet", err)
	}

	rows := [][]string{{"Metric", "Value", "Amount"}}

	type topEntry struct {
		label string
		name  string
	}
	for _, entry := range []topEntry{
		{"Top Category", analysis.ByCategory},
		{"Top Region", analysis.ByRegion},
		{"Top Sales Rep", analysis.BySalesRep},
	} {
		if table, ok := report[entry.name]; ok && len(table.Rows) > 0 {
			rows = append(rows, []string{entry.label, table.Rows[0].Key, money(table.Rows[0].TotalRevenue)})
		}
	}

	rows = append(rows,
		[]string{"Total Revenue", "", money(summary.TotalRevenue)},
		[]string{"Total Profit", "", money(summary.TotalProfit)},
		[]string{"Transactions", fmt.Sprintf("%d", summary.Transactions), ""},
		[]string{"Date Range", fmt.Sprintf("%s to %s",
			summary.DateMin.Format("2006-01-02"), summary.DateMax.Format("2006-01-02")), ""},
	)

	for i, row := range rows {
		if err := writeRow(f, sheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

// writeRow writes string cells starting at column A of the given row.
func writeRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	addr, err := excelize.JoinCellName("A", rowNum)
	if err != nil {
		return apperrors.NewStorageError("failed to compute cell address", err)
	}
	row := make([]interface{}, len(cells))
	for i, cell := range cells {
		row[i] = cell
	}
	if err := f.SetSheetRow(sheet, addr, &row); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d on %q", rowNum, sheet), err)
	}
	return nil
}
