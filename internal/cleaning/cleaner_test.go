package cleaning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "salescli/internal/errors"
	"salescli/internal/schema"
)

var tolerance = decimal.RequireFromString("0.01")

func testCleaner() *Cleaner {
	validator := schema.NewValidator(
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 12, 31, 0, 0, 0, 0, time.UTC),
	)
	return NewCleaner(validator, tolerance, nil)
}

func fullColumns() []string {
	return []string{
		schema.ColProductID, schema.ColSaleDate, schema.ColSalesRep,
		schema.ColRegion, schema.ColCategory, schema.ColQuantity,
		schema.ColUnitCost, schema.ColUnitPrice, schema.ColDiscount,
		schema.ColSalesAmount,
	}
}

func row(id, date, rep, region, category, qty, price, discount string) schema.RawRecord {
	return schema.RawRecord{
		schema.ColProductID: id,
		schema.ColSaleDate:  date,
		schema.ColSalesRep:  rep,
		schema.ColRegion:    region,
		schema.ColCategory:  category,
		schema.ColQuantity:  qty,
		schema.ColUnitPrice: price,
		schema.ColDiscount:  discount,
	}
}

func TestCleaner_Clean_Scenario(t *testing.T) {
	// Three raw rows, the third a duplicate of the first.
	table := schema.RawTable{
		Columns: fullColumns(),
		Rows: []schema.RawRecord{
			row("P001", "2023-01-01", "Alice", "North", "Electronics", "2", "100", "0"),
			row("P002", "2023-01-02", "Bob", "South", "Food", "1", "50", "10"),
			row("P001", "2023-01-01", "Alice", "North", "Electronics", "2", "100", "0"),
		},
	}

	dataset, report, err := testCleaner().Clean(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, dataset.Records, 2)
	assert.Equal(t, 1, report.DuplicatesDropped)
	assert.Equal(t, 0, report.Rejected)

	first := dataset.Records[0]
	assert.Equal(t, "P001", first.ProductID)
	assert.Equal(t, "200", first.SalesAmount.String())
	assert.Equal(t, "North_Alice", first.RegionRep)

	second := dataset.Records[1]
	assert.Equal(t, "P002", second.ProductID)
	assert.Equal(t, "45", second.SalesAmount.String())
	assert.Equal(t, "South_Bob", second.RegionRep)

	assert.Equal(t, "245", dataset.TotalRevenue().String())
}

func TestCleaner_Clean_RejectsInvalidQuantity(t *testing.T) {
	table := schema.RawTable{
		Columns: fullColumns(),
		Rows: []schema.RawRecord{
			row("P001", "2023-01-01", "Alice", "North", "Electronics", "2", "100", "0"),
			row("P002", "2023-01-02", "Bob", "South", "Food", "-1", "50", "10"),
		},
	}

	dataset, report, err := testCleaner().Clean(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, dataset.Records, 1)
	assert.Equal(t, 1, report.Rejected)
	assert.Equal(t, 1, report.RejectedByReason[schema.ReasonInvalidQuantity])
	for _, rec := range dataset.Records {
		assert.NotEqual(t, "P002", rec.ProductID)
	}
}

func TestCleaner_Clean_EmptyInput(t *testing.T) {
	table := schema.RawTable{Columns: fullColumns()}

	dataset, report, err := testCleaner().Clean(context.Background(), table)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyDataset))
	assert.Nil(t, dataset)
	assert.Nil(t, report)
}

func TestCleaner_Clean_AllRowsRejected(t *testing.T) {
	table := schema.RawTable{
		Columns: fullColumns(),
		Rows: []schema.RawRecord{
			row("P001", "not a date", "Alice", "North", "Electronics", "2", "100", "0"),
		},
	}

	_, _, err := testCleaner().Clean(context.Background(), table)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrEmptyDataset))
}

func TestCleaner_Clean_SchemaMismatch(t *testing.T) {
	table := schema.RawTable{
		Columns: []string{schema.ColProductID, schema.ColSalesRep},
		Rows: []schema.RawRecord{
			{schema.ColProductID: "P001", schema.ColSalesRep: "Alice"},
		},
	}

	_, _, err := testCleaner().Clean(context.Background(), table)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSchemaMismatch))
}

func TestCleaner_Clean_DedupKeepsFirstOccurrence(t *testing.T) {
	// Same (product, date, rep) but different prices: the first wins.
	table := schema.RawTable{
		Columns: fullColumns(),
		Rows: []schema.RawRecord{
			row("P001", "2023-01-01", "Alice", "North", "Electronics", "1", "100", "0"),
			row("P001", "2023-01-01", "Alice", "North", "Electronics", "1", "999", "0"),
		},
	}

	dataset, report, err := testCleaner().Clean(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, dataset.Records, 1)
	assert.Equal(t, 1, report.DuplicatesDropped)
	assert.Equal(t, "100", dataset.Records[0].SalesAmount.String())
}

func TestCleaner_Clean_SortsByDateStable(t *testing.T) {
	table := schema.RawTable{
		Columns: fullColumns(),
		Rows: []schema.RawRecord{
			row("P003", "2023-03-01", "Alice", "North", "Electronics", "1", "10", "0"),
			row("P001", "2023-01-01", "Bob", "South", "Food", "1", "10", "0"),
			row("P002", "2023-01-01", "Charlie", "East", "Clothing", "1", "10", "0"),
		},
	}

	dataset, _, err := testCleaner().Clean(context.Background(), table)
	require.NoError(t, err)

	require.Len(t, dataset.Records, 3)
	// Ascending by date; equal dates keep original file order.
	assert.Equal(t, "P001", dataset.Records[0].ProductID)
	assert.Equal(t, "P002", dataset.Records[1].ProductID)
	assert.Equal(t, "P003", dataset.Records[2].ProductID)
}

func TestCleaner_Clean_DerivedFieldConflict(t *testing.T) {
	raw := row("P001", "2023-01-01", "Alice", "North", "Electronics", "2", "100", "0")
	raw[schema.ColSalesAmount] = "999.99"

	table := schema.RawTable{Columns: fullColumns(), Rows: []schema.RawRecord{raw}}

	dataset, report, err := testCleaner().Clean(context.Background(), table)
	require.NoError(t, err)

	// The recomputed value wins; the conflict is counted, not rejected.
	require.Len(t, dataset.Records, 1)
	assert.Equal(t, 1, report.DerivedConflicts)
	assert.Equal(t, "200", dataset.Records[0].SalesAmount.String())
}

func TestCleaner_Clean_SuppliedAmountWithinTolerance(t *testing.T) {
	raw := row("P001", "2023-01-01", "Alice", "North", "Electronics", "2", "100", "0")
	raw[schema.ColSalesAmount] = "200.00"

	table := schema.RawTable{Columns: fullColumns(), Rows: []schema.RawRecord{raw}}

	_, report, err := testCleaner().Clean(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, 0, report.DerivedConflicts)
}

func TestCleaner_Clean_ProfitDerivation(t *testing.T) {
	t.Run("with unit cost", func(t *testing.T) {
		raw := row("P001", "2023-01-01", "Alice", "North", "Electronics", "2", "100", "10")
		raw[schema.ColUnitCost] = "40"

		table := schema.RawTable{Columns: fullColumns(), Rows: []schema.RawRecord{raw}}
		dataset, _, err := testCleaner().Clean(context.Background(), table)
		require.NoError(t, err)

		rec := dataset.Records[0]
		require.True(t, rec.HasProfit)
		// sales_amount = 100*2*0.9 = 180.00; profit = 180 - 40*2 = 100.00
		assert.Equal(t, "180", rec.SalesAmount.String())
		assert.Equal(t, "100", rec.Profit.String())
	})

	t.Run("without unit cost", func(t *testing.T) {
		table := schema.RawTable{
			Columns: fullColumns(),
			Rows: []schema.RawRecord{
				row("P001", "2023-01-01", "Alice", "North", "Electronics", "2", "100", "0"),
			},
		}
		dataset, _, err := testCleaner().Clean(context.Background(), table)
		require.NoError(t, err)

		rec := dataset.Records[0]
		assert.False(t, rec.HasProfit)
		assert.Equal(t, "0", dataset.TotalProfit().String())
	})
}

func TestCleaner_Clean_Idempotent(t *testing.T) {
	table := schema.RawTable{
		Columns: fullColumns(),
		Rows: []schema.RawRecord{
			row("P002", "2023-01-02", "Bob", "South", "Food", "3", "75.50", "12.5"),
			row("P001", "2023-01-01", "Alice", "North", "Electronics", "2", "100", "0"),
			row("P002", "2023-01-02", "Bob", "South", "Food", "3", "75.50", "12.5"),
		},
	}

	cleaner := testCleaner()
	first, _, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)
	second, _, err := cleaner.Clean(context.Background(), table)
	require.NoError(t, err)

	require.Equal(t, first.Records, second.Records)
}

func TestCleaner_Clean_RecordInvariants(t *testing.T) {
	table := schema.RawTable{
		Columns: fullColumns(),
		Rows: []schema.RawRecord{
			row("P001", "2023-01-05", "Alice", "North", "Electronics", "2", "100", "0"),
			row("P002", "2023-01-02", "Bob", "South", "Food", "10", "19.99", "25"),
			row("P003", "2023-02-14", "Eve", "West", "Clothing", "1", "1,250.00", "5.5"),
			row("BAD1", "2023-01-01", "", "North", "Food", "1", "10", "0"),
			row("BAD2", "2023-01-01", "Bob", "North", "Food", "0", "10", "0"),
		},
	}

	dataset, report, err := testCleaner().Clean(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Rejected)

	hundred := decimal.NewFromInt(100)
	for _, rec := range dataset.Records {
		assert.NotEmpty(t, rec.ProductID)
		assert.NotEmpty(t, rec.SalesRep)
		assert.NotEmpty(t, rec.Region)
		assert.NotEmpty(t, rec.Category)
		assert.Greater(t, rec.Quantity, int64(0))
		assert.False(t, rec.DiscountPct.IsNegative())
		assert.True(t, rec.DiscountPct.LessThan(hundred))
		assert.False(t, rec.SalesAmount.IsNegative())

		// sales_amount recomputed to 2 decimals from its inputs.
		expected := rec.UnitPrice.
			Mul(decimal.NewFromInt(rec.Quantity)).
			Mul(decimal.NewFromInt(1).Sub(rec.DiscountPct.Div(hundred))).
			Round(2)
		assert.True(t, rec.SalesAmount.Equal(expected),
			"record %s: got %s want %s", rec.ProductID, rec.SalesAmount, expected)
		assert.Equal(t, rec.Region+"_"+rec.SalesRep, rec.RegionRep)
	}
}
