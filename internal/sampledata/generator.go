package sampledata

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"salescli/internal/schema"
)

// Vocabularies for generated demo data.
var (
	salesReps  = []string{"Alice", "Bob", "Charlie", "David", "Eve"}
	regions    = []string{"North", "South", "East", "West"}
	categories = []string{"Electronics", "Furniture", "Clothing", "Food"}
)

// Generator produces a deterministic demo sales table for a fixed seed.
// It exists for demos and test fixtures; it is not part of the analysis core.
type Generator struct {
	rng   *rand.Rand
	start time.Time
}

// New creates a generator seeded for reproducible output. Sale dates start
// at 2023-01-01 and advance one day per row, matching a full year of
// daily records at the default row count.
func New(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewSource(seed)),
		start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate produces n raw records with the source file's column set,
// including a precomputed Sales_Amount so generated files exercise the
// derived-field reconciliation path.
func (g *Generator) Generate(n int) schema.RawTable {
	columns := []string{
		schema.ColProductID,
		schema.ColSaleDate,
		schema.ColSalesRep,
		schema.ColRegion,
		schema.ColCategory,
		schema.ColQuantity,
		schema.ColUnitCost,
		schema.ColUnitPrice,
		schema.ColDiscount,
		schema.ColSalesAmount,
	}

	rows := make([]schema.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		quantity := g.rng.Intn(50) + 1
		unitCost := decimal.NewFromFloat(50 + g.rng.Float64()*4950).Round(2)
		markup := decimal.NewFromFloat(1.1 + g.rng.Float64()*0.9)
		unitPrice := unitCost.Mul(markup).Round(2)
		discount := decimal.NewFromFloat(g.rng.Float64() * 30).Round(1)

		amount := unitPrice.
			Mul(decimal.NewFromInt(int64(quantity))).
			Mul(decimal.NewFromInt(1).Sub(discount.Div(decimal.NewFromInt(100)))).
			Round(2)

		rows = append(rows, schema.RawRecord{
			schema.ColProductID:   fmt.Sprintf("P%04d", i+1),
			schema.ColSaleDate:    g.start.AddDate(0, 0, i).Format("2006-01-02"),
			schema.ColSalesRep:    salesReps[g.rng.Intn(len(salesReps))],
			schema.ColRegion:      regions[g.rng.Intn(len(regions))],
			schema.ColCategory:    categories[g.rng.Intn(len(categories))],
			schema.ColQuantity:    fmt.Sprintf("%d", quantity),
			schema.ColUnitCost:    unitCost.StringFixed(2),
			schema.ColUnitPrice:   unitPrice.StringFixed(2),
			schema.ColDiscount:    discount.StringFixed(1),
			schema.ColSalesAmount: amount.StringFixed(2),
		})
	}

	return schema.RawTable{Columns: columns, Rows: rows}
}

// WriteCSV materializes n generated rows as a CSV input file.
func (g *Generator) WriteCSV(path string, n int, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	table := g.Generate(n)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sample file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range table.Rows {
		row := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			row[i] = rec[col]
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	logger.Info("sample data created",
		slog.String("path", path),
		slog.Int("records", n))

	return writer.Error()
}
