package analysis

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"salescli/internal/cleaning"
	"salescli/internal/schema"
)

// Report names for the combined report map.
const (
	ByCategory = "by_category"
	ByRegion   = "by_region"
	BySalesRep = "by_sales_rep"
	ByTime     = "by_time"
)

// Row is one group's aggregates within an analysis table.
type Row struct {
	Key              string          `json:"key"`
	TransactionCount int             `json:"transaction_count"`
	TotalQuantity    int64           `json:"total_quantity"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	AvgOrderValue    decimal.Decimal `json:"avg_order_value"`
}

// Table is a grouped aggregate table for one dimension, ordered per that
// dimension's contract.
type Table struct {
	Dimension string `json:"dimension"`
	Rows      []Row  `json:"rows"`
}

// Report is the combined report: analysis name to table. It is the sole
// artifact handed to visualization and export collaborators, which treat it
// as read-only and iterate over whatever keys are present.
type Report map[string]*Table

// Analyzer computes the grouped analyses over a cleaned dataset.
type Analyzer struct {
	dataset *cleaning.Dataset
	logger  *slog.Logger
}

// NewAnalyzer creates an analyzer for one run's dataset.
func NewAnalyzer(dataset *cleaning.Dataset, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{dataset: dataset, logger: logger}
}

// ByCategory groups by product category, ordered by descending total revenue.
func (a *Analyzer) ByCategory() *Table {
	return a.analyze(ByCategory, func(r schema.SalesRecord) string { return r.Category }, byRevenue)
}

// ByRegion groups by region, ordered by descending total revenue.
func (a *Analyzer) ByRegion() *Table {
	return a.analyze(ByRegion, func(r schema.SalesRecord) string { return r.Region }, byRevenue)
}

// BySalesRep groups by sales representative, ordered by descending total revenue.
func (a *Analyzer) BySalesRep() *Table {
	return a.analyze(BySalesRep, func(r schema.SalesRecord) string { return r.SalesRep }, byRevenue)
}

// ByTime groups by sale month, ordered chronologically.
func (a *Analyzer) ByTime() *Table {
	return a.analyze(ByTime, func(r schema.SalesRecord) string { return r.MonthKey() }, byKey)
}

// Report assembles the combined report for all four analyses.
func (a *Analyzer) Report() Report {
	report := Report{
		ByCategory: a.ByCategory(),
		ByRegion:   a.ByRegion(),
		BySalesRep: a.BySalesRep(),
		ByTime:     a.ByTime(),
	}

	a.logger.Info("combined report assembled",
		slog.Int("analyses", len(report)),
		slog.Int("records", len(a.dataset.Records)))

	return report
}

type ordering int

const (
	// byRevenue orders descending total revenue, ascending key on ties.
	byRevenue ordering = iota
	// byKey orders ascending by group key.
	byKey
)

// analyze groups the dataset by the key function and computes per-group
// aggregates. An empty dataset yields an empty table, never an error.
func (a *Analyzer) analyze(dimension string, keyOf func(schema.SalesRecord) string, order ordering) *Table {
	groups := make(map[string]*Row)
	for _, rec := range a.dataset.Records {
		key := keyOf(rec)
		row, ok := groups[key]
		if !ok {
			row = &Row{Key: key, TotalRevenue: decimal.Zero, TotalProfit: decimal.Zero}
			groups[key] = row
		}
		row.TransactionCount++
		row.TotalQuantity += rec.Quantity
		row.TotalRevenue = row.TotalRevenue.Add(rec.SalesAmount)
		if rec.HasProfit {
			row.TotalProfit = row.TotalProfit.Add(rec.Profit)
		}
	}

	rows := make([]Row, 0, len(groups))
	for _, row := range groups {
		row.AvgOrderValue = row.TotalRevenue.Div(decimal.NewFromInt(int64(row.TransactionCount))).Round(2)
		rows = append(rows, *row)
	}

	switch order {
	case byKey:
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].Key < rows[j].Key
		})
	default:
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].TotalRevenue.Equal(rows[j].TotalRevenue) {
				return rows[i].TotalRevenue.GreaterThan(rows[j].TotalRevenue)
			}
			return rows[i].Key < rows[j].Key
		})
	}

	return &Table{Dimension: dimension, Rows: rows}
}
