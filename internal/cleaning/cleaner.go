package cleaning

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "salescli/internal/errors"
	"salescli/internal/schema"
)

// Dataset is the ordered, deduplicated, validated collection of sales
// records for one run. It is immutable once produced; downstream consumers
// read without mutation.
type Dataset struct {
	Records []schema.SalesRecord
}

// TotalRevenue returns the sum of sales amounts across the dataset.
func (d *Dataset) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, rec := range d.Records {
		total = total.Add(rec.SalesAmount)
	}
	return total
}

// TotalProfit returns the sum of profit across the dataset. Records without
// a unit cost contribute zero.
func (d *Dataset) TotalProfit() decimal.Decimal {
	total := decimal.Zero
	for _, rec := range d.Records {
		if rec.HasProfit {
			total = total.Add(rec.Profit)
		}
	}
	return total
}

// Report holds the cleaning counts surfaced to the operator-facing layer.
type Report struct {
	RunID             string         `json:"run_id"`
	InputRows         int            `json:"input_rows"`
	Accepted          int            `json:"accepted"`
	Coerced           int            `json:"coerced"`
	Rejected          int            `json:"rejected"`
	RejectedByReason  map[string]int `json:"rejected_by_reason"`
	DuplicatesDropped int            `json:"duplicates_dropped"`
	DerivedConflicts  int            `json:"derived_conflicts"`
}

// Cleaner applies the schema validator to a raw table and produces a
// Dataset plus a cleaning report.
type Cleaner struct {
	validator *schema.Validator
	tolerance decimal.Decimal
	logger    *slog.Logger
}

// NewCleaner creates a cleaner. tolerance is the maximum allowed gap between
// a source-supplied sales amount and the recomputed one before the conflict
// is counted.
func NewCleaner(validator *schema.Validator, tolerance decimal.Decimal, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		validator: validator,
		tolerance: tolerance,
		logger:    logger,
	}
}

// Clean runs the full cleaning pass: validate, deduplicate, derive, sort.
// It either completes or fails atomically; no partial dataset is returned.
func (c *Cleaner) Clean(ctx context.Context, table schema.RawTable) (*Dataset, *Report, error) {
	if err := c.validator.CheckColumns(table.Columns); err != nil {
		return nil, nil, err
	}

	report := &Report{
		RunID:            uuid.NewString(),
		InputRows:        len(table.Rows),
		RejectedByReason: make(map[string]int),
	}

	c.logger.InfoContext(ctx, "cleaning raw table",
		slog.String("run_id", report.RunID),
		slog.Int("input_rows", len(table.Rows)))

	// Validate every row; kept rows preserve original file order.
	kept := make([]schema.SalesRecord, 0, len(table.Rows))
	for i, raw := range table.Rows {
		result := c.validator.Validate(raw)
		switch result.Outcome {
		case schema.Accept:
			report.Accepted++
			kept = append(kept, result.Record)
		case schema.Coerce:
			report.Coerced++
			kept = append(kept, result.Record)
		case schema.Reject:
			report.Rejected++
			for _, reason := range result.Reasons {
				report.RejectedByReason[reason]++
			}
			c.logger.DebugContext(ctx, "row rejected",
				slog.Int("row", i),
				slog.Any("reasons", result.Reasons))
		}
	}

	// Deduplicate on (product_id, sale_date, sales_rep), first occurrence wins.
	seen := make(map[string]bool, len(kept))
	deduped := kept[:0]
	for _, rec := range kept {
		key := rec.Key()
		if seen[key] {
			report.DuplicatesDropped++
			continue
		}
		seen[key] = true
		deduped = append(deduped, rec)
	}

	for i := range deduped {
		c.derive(ctx, &deduped[i], report)
	}

	// Stable sort keeps original file order for equal dates.
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].SaleDate.Before(deduped[j].SaleDate)
	})

	if len(deduped) == 0 {
		return nil, nil, apperrors.NewEmptyDatasetError(len(table.Rows))
	}

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.String("run_id", report.RunID),
		slog.Int("accepted", report.Accepted),
		slog.Int("coerced", report.Coerced),
		slog.Int("rejected", report.Rejected),
		slog.Int("duplicates_dropped", report.DuplicatesDropped),
		slog.Int("derived_conflicts", report.DerivedConflicts))

	return &Dataset{Records: deduped}, report, nil
}

// derive computes sales_amount, profit and region_rep for a kept record.
// The recomputed sales amount always wins: the source is the authority on
// inputs (price, quantity, discount), not on a possibly stale derived total.
func (c *Cleaner) derive(ctx context.Context, rec *schema.SalesRecord, report *Report) {
	quantity := decimal.NewFromInt(rec.Quantity)
	discountFactor := decimal.NewFromInt(1).Sub(rec.DiscountPct.Div(decimal.NewFromInt(100)))

	rec.SalesAmount = rec.UnitPrice.Mul(quantity).Mul(discountFactor).Round(2)

	if rec.HasRawSalesAmount && rec.RawSalesAmount.Sub(rec.SalesAmount).Abs().GreaterThan(c.tolerance) {
		report.DerivedConflicts++
		c.logger.WarnContext(ctx, "sales amount conflicts with recomputed value",
			slog.String("product_id", rec.ProductID),
			slog.String("sale_date", rec.SaleDate.Format("2006-01-02")),
			slog.String("supplied", rec.RawSalesAmount.StringFixed(2)),
			slog.String("recomputed", rec.SalesAmount.StringFixed(2)))
	}

	if rec.HasUnitCost {
		rec.Profit = rec.SalesAmount.Sub(rec.UnitCost.Mul(quantity)).Round(2)
		rec.HasProfit = true
	}

	rec.RegionRep = rec.Region + "_" + rec.SalesRep
}
