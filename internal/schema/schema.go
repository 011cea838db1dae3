package schema

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Expected column names in the source file. Matching is exact; the loader
// does not attempt fuzzy header recognition.
const (
	ColProductID   = "Product_ID"
	ColSaleDate    = "Sale_Date"
	ColSalesRep    = "Sales_Rep"
	ColRegion      = "Region"
	ColCategory    = "Product_Category"
	ColQuantity    = "Quantity_Sold"
	ColUnitCost    = "Unit_Cost"
	ColUnitPrice   = "Unit_Price"
	ColDiscount    = "Discount"
	ColSalesAmount = "Sales_Amount"
)

// RequiredColumns are the columns that must be structurally present in the
// input header. Unit_Cost and Sales_Amount are optional: profit is simply
// not derived without a cost column, and Sales_Amount is recomputed anyway.
func RequiredColumns() []string {
	return []string{
		ColProductID,
		ColSaleDate,
		ColSalesRep,
		ColRegion,
		ColCategory,
		ColQuantity,
		ColUnitPrice,
		ColDiscount,
	}
}

// RawRecord is an unvalidated input row: column name to raw cell text.
// Cells from both CSV and Excel sources arrive as strings; an absent key or
// empty string means the value is missing.
type RawRecord map[string]string

// RawTable is the full raw input: the header as read from the file plus
// the ordered data rows.
type RawTable struct {
	Columns []string
	Rows    []RawRecord
}

// SalesRecord is a validated, typed row with derived fields computed.
type SalesRecord struct {
	ProductID   string          `json:"product_id" validate:"required"`
	SaleDate    time.Time       `json:"sale_date" validate:"required"`
	SalesRep    string          `json:"sales_rep" validate:"required"`
	Region      string          `json:"region" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"gte=0"`
	DiscountPct decimal.Decimal `json:"discount_pct" validate:"gte=0,lt=100"`

	// Derived during cleaning.
	SalesAmount decimal.Decimal `json:"sales_amount"`
	Profit      decimal.Decimal `json:"profit"`
	RegionRep   string          `json:"region_rep"`

	// HasUnitCost tracks whether the source supplied a unit cost; profit is
	// only derived when it did.
	HasUnitCost bool `json:"-"`
	// HasProfit mirrors HasUnitCost after derivation.
	HasProfit bool `json:"-"`

	// RawSalesAmount holds a sales amount supplied by the source, kept only
	// to detect conflicts with the recomputed value.
	RawSalesAmount    decimal.Decimal `json:"-"`
	HasRawSalesAmount bool            `json:"-"`
}

// Key returns the deduplication key (product_id, sale_date, sales_rep).
func (r SalesRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s", r.ProductID, r.SaleDate.Format("2006-01-02"), r.SalesRep)
}

// MonthKey returns the sale date truncated to month, for time-series grouping.
func (r SalesRecord) MonthKey() string {
	return r.SaleDate.Format("2006-01")
}
