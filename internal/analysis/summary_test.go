package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/cleaning"
	"salescli/internal/schema"
)

func TestSummarize(t *testing.T) {
	withProfit := record("P001", "2023-01-10", "Alice", "North", "Electronics", 2, "200.00")
	withProfit.Profit = decimal.RequireFromString("80.00")
	withProfit.HasProfit = true

	dataset := &cleaning.Dataset{Records: []schema.SalesRecord{
		withProfit,
		record("P002", "2023-01-02", "Bob", "South", "Food", 1, "45.00"),
		record("P001", "2023-03-20", "Bob", "South", "Food", 1, "55.00"),
	}}

	summary := Summarize(dataset)

	assert.Equal(t, 3, summary.Transactions)
	assert.Equal(t, 2, summary.DistinctProducts)
	assert.Equal(t, 2, summary.DistinctRegions)
	assert.Equal(t, 2, summary.DistinctCategories)
	assert.Equal(t, 2, summary.DistinctReps)
	assert.Equal(t, time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), summary.DateMin)
	assert.Equal(t, time.Date(2023, 3, 20, 0, 0, 0, 0, time.UTC), summary.DateMax)
	assert.Equal(t, "300", summary.TotalRevenue.String())
	assert.Equal(t, "80", summary.TotalProfit.String())
}

func TestSummarize_NoProfitColumn(t *testing.T) {
	dataset := &cleaning.Dataset{Records: []schema.SalesRecord{
		record("P001", "2023-01-01", "Alice", "North", "Electronics", 1, "100.00"),
	}}

	summary := Summarize(dataset)

	// Profit reads as zero when the source carried no cost column.
	assert.True(t, summary.TotalProfit.IsZero())
}

func TestSummarize_EmptyDataset(t *testing.T) {
	summary := Summarize(&cleaning.Dataset{})

	require.Equal(t, 0, summary.Transactions)
	assert.Equal(t, 0, summary.DistinctProducts)
	assert.True(t, summary.TotalRevenue.IsZero())
	assert.True(t, summary.DateMin.IsZero())
}
