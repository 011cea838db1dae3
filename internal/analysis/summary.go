package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"salescli/internal/cleaning"
)

// Summary holds dataset-level descriptive statistics for operator display.
type Summary struct {
	Transactions       int             `json:"transactions"`
	DistinctProducts   int             `json:"distinct_products"`
	DateMin            time.Time       `json:"date_min"`
	DateMax            time.Time       `json:"date_max"`
	DistinctRegions    int             `json:"distinct_regions"`
	DistinctCategories int             `json:"distinct_categories"`
	DistinctReps       int             `json:"distinct_reps"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalProfit        decimal.Decimal `json:"total_profit"`
}

// Summarize computes descriptive statistics over a cleaned dataset in a
// single pass. Total profit is zero when no record carries a unit cost.
func Summarize(dataset *cleaning.Dataset) Summary {
	summary := Summary{
		Transactions: len(dataset.Records),
		TotalRevenue: decimal.Zero,
		TotalProfit:  decimal.Zero,
	}

	products := make(map[string]bool)
	regions := make(map[string]bool)
	categories := make(map[string]bool)
	reps := make(map[string]bool)

	for i, rec := range dataset.Records {
		products[rec.ProductID] = true
		regions[rec.Region] = true
		categories[rec.Category] = true
		reps[rec.SalesRep] = true

		summary.TotalRevenue = summary.TotalRevenue.Add(rec.SalesAmount)
		if rec.HasProfit {
			summary.TotalProfit = summary.TotalProfit.Add(rec.Profit)
		}

		if i == 0 || rec.SaleDate.Before(summary.DateMin) {
			summary.DateMin = rec.SaleDate
		}
		if i == 0 || rec.SaleDate.After(summary.DateMax) {
			summary.DateMax = rec.SaleDate
		}
	}

	summary.DistinctProducts = len(products)
	summary.DistinctRegions = len(regions)
	summary.DistinctCategories = len(categories)
	summary.DistinctReps = len(reps)

	return summary
}
