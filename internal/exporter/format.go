package exporter

import (
	"strconv"

	"github.com/shopspring/decimal"

	"salescli/internal/analysis"
	"salescli/internal/schema"
)

// cleanedDataHeaders is the column order for the cleaned data sheet/CSV.
var cleanedDataHeaders = []string{
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
	"Profit",
	"Region_and_Sales_Rep",
}

// analysisHeaders is the column order for analysis tables. The first column
// is replaced by the table's dimension name.
var analysisHeaders = []string{
	"Key",
	"Transactions",
	"Total_Quantity",
	"Total_Revenue",
	"Total_Profit",
	"Avg_Order_Value",
}

// recordRow renders one cleaned record as CSV/sheet cells. Profit is blank
// when the source carried no unit cost.
func recordRow(rec schema.SalesRecord) []string {
	profit := ""
	unitCost := ""
	if rec.HasUnitCost {
		unitCost = rec.UnitCost.StringFixed(2)
	}
	if rec.HasProfit {
		profit = rec.Profit.StringFixed(2)
	}
	return []string{
		rec.ProductID,
		rec.SaleDate.Format("2006-01-02"),
		rec.SalesRep,
		rec.Region,
		rec.Category,
		strconv.FormatInt(rec.Quantity, 10),
		unitCost,
		rec.UnitPrice.StringFixed(2),
		rec.DiscountPct.StringFixed(1),
		rec.SalesAmount.StringFixed(2),
		profit,
		rec.RegionRep,
	}
}

// analysisRow renders one analysis group as CSV/sheet cells.
func analysisRow(row analysis.Row) []string {
	return []string{
		row.Key,
		strconv.Itoa(row.TransactionCount),
		strconv.FormatInt(row.TotalQuantity, 10),
		row.TotalRevenue.StringFixed(2),
		row.TotalProfit.StringFixed(2),
		row.AvgOrderValue.StringFixed(2),
	}
}

// money renders a decimal amount for display with two decimals.
func money(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
