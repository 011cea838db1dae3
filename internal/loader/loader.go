package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "salescli/internal/errors"
	"salescli/internal/schema"
)

// Load reads a raw table from the given file, dispatching on extension.
// Supported formats are .csv and .xlsx.
func Load(path string, logger *slog.Logger) (schema.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, logger)
	case ".xlsx":
		return LoadExcel(path, logger)
	default:
		return schema.RawTable{}, apperrors.NewParsingError(
			fmt.Sprintf("unsupported input format %q", filepath.Ext(path)), nil)
	}
}

// LoadCSV reads a CSV file into a raw table. The first row is the header;
// a UTF-8 BOM is stripped if present.
func LoadCSV(path string, logger *slog.Logger) (schema.RawTable, error) {
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.Open(path)
	if err != nil {
		return schema.RawTable{}, apperrors.NewParsingError("failed to open input file", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return schema.RawTable{}, apperrors.NewParsingError("failed to read input file", err)
	}

	// Remove BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return schema.RawTable{}, apperrors.NewParsingError("failed to parse CSV", err)
	}

	table := buildTable(rows)

	logger.Info("loaded CSV input",
		slog.String("path", path),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Columns)))

	return table, nil
}

// LoadExcel reads the first sheet of an xlsx workbook into a raw table.
func LoadExcel(path string, logger *slog.Logger) (schema.RawTable, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return schema.RawTable{}, apperrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return schema.RawTable{}, apperrors.NewParsingError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return schema.RawTable{}, apperrors.NewParsingError(
			fmt.Sprintf("failed to read sheet %q", sheets[0]), err)
	}

	table := buildTable(rows)

	logger.Info("loaded Excel input",
		slog.String("path", path),
		slog.String("sheet", sheets[0]),
		slog.Int("rows", len(table.Rows)))

	return table, nil
}

// buildTable maps positional rows onto the header's column names. Short rows
// leave trailing columns absent; extra cells beyond the header are ignored.
func buildTable(rows [][]string) schema.RawTable {
	if len(rows) == 0 {
		return schema.RawTable{}
	}

	columns := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		columns[i] = strings.TrimSpace(col)
	}

	records := make([]schema.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(schema.RawRecord, len(columns))
		for i, col := range columns {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		records = append(records, record)
	}

	return schema.RawTable{Columns: columns, Rows: records}
}
