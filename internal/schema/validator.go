package schema

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "salescli/internal/errors"
)

// Outcome classifies a raw row after validation.
type Outcome int

const (
	// Accept means the row was already in canonical form.
	Accept Outcome = iota
	// Coerce means a typed correction existed for at least one field.
	Coerce
	// Reject means at least one required field was missing, unparseable,
	// or out of range.
	Reject
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case Coerce:
		return "coerce"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// Rejection reason codes, surfaced in the cleaning report.
const (
	ReasonMissingField    = "missing_field"
	ReasonInvalidDate     = "invalid_date"
	ReasonDateOutOfRange  = "date_out_of_range"
	ReasonInvalidQuantity = "invalid_quantity"
	ReasonInvalidUnitCost = "invalid_unit_cost"
	ReasonInvalidPrice    = "invalid_unit_price"
	ReasonInvalidDiscount = "invalid_discount"
	ReasonInvalidRecord   = "invalid_record"
)

// RowResult is the classification of a single raw row. Record is populated
// for Accept and Coerce; Reasons is populated for Reject.
type RowResult struct {
	Outcome Outcome
	Record  SalesRecord
	Reasons []string
}

// dateLayouts accepted for Sale_Date. The first is canonical; parsing via
// any other counts as a coercion.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"01-02-06",
}

// Validator classifies raw records against the expected schema. It does not
// mutate its input and has no side effects.
type Validator struct {
	minDate  time.Time
	maxDate  time.Time
	validate *validator.Validate
}

// NewValidator creates a validator with the given plausible sale-date range.
func NewValidator(minDate, maxDate time.Time) *Validator {
	v := validator.New()
	v.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})
	return &Validator{
		minDate:  minDate,
		maxDate:  maxDate,
		validate: v,
	}
}

// decimalAsFloat lets the validator apply numeric bound tags to decimal fields.
func decimalAsFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// CheckColumns verifies the input header contains every structurally
// required column. A missing column means the file is the wrong shape, not
// that individual rows are malformed.
func (v *Validator) CheckColumns(columns []string) error {
	present := make(map[string]bool, len(columns))
	for _, col := range columns {
		present[strings.TrimSpace(col)] = true
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if !present[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return apperrors.NewSchemaMismatchError(missing)
	}
	return nil
}

// Validate classifies a single raw record. All required fields are checked;
// the row is rejected if any fails, regardless of others passing.
func (v *Validator) Validate(raw RawRecord) RowResult {
	var (
		rec     SalesRecord
		reasons []string
		coerced bool
	)

	addReason := func(reason string) {
		reasons = append(reasons, reason)
	}

	rec.ProductID = v.stringField(raw, ColProductID, &coerced, addReason)
	rec.SalesRep = v.stringField(raw, ColSalesRep, &coerced, addReason)
	rec.Region = v.stringField(raw, ColRegion, &coerced, addReason)
	rec.Category = v.stringField(raw, ColCategory, &coerced, addReason)

	if text, ok := cell(raw, ColSaleDate); !ok {
		addReason(ReasonMissingField)
	} else if date, c, err := parseDate(text); err != nil {
		addReason(ReasonInvalidDate)
	} else if date.Before(v.minDate) || date.After(v.maxDate) {
		addReason(ReasonDateOutOfRange)
	} else {
		rec.SaleDate = date
		coerced = coerced || c
	}

	if text, ok := cell(raw, ColQuantity); !ok {
		addReason(ReasonMissingField)
	} else if qty, c, err := parseInt(text); err != nil || qty <= 0 {
		addReason(ReasonInvalidQuantity)
	} else {
		rec.Quantity = qty
		coerced = coerced || c
	}

	if text, ok := cell(raw, ColUnitPrice); !ok {
		addReason(ReasonMissingField)
	} else if price, c, err := parseDecimal(text); err != nil || price.IsNegative() {
		addReason(ReasonInvalidPrice)
	} else {
		rec.UnitPrice = price
		coerced = coerced || c
	}

	if text, ok := cell(raw, ColDiscount); !ok {
		addReason(ReasonMissingField)
	} else if disc, c, err := parseDecimal(text); err != nil ||
		disc.IsNegative() || disc.GreaterThanOrEqual(decimal.NewFromInt(100)) {
		addReason(ReasonInvalidDiscount)
	} else {
		rec.DiscountPct = disc
		coerced = coerced || c
	}

	// Unit cost is optional; when present it must be a non-negative number.
	if text, ok := cell(raw, ColUnitCost); ok {
		if cost, c, err := parseDecimal(text); err != nil || cost.IsNegative() {
			addReason(ReasonInvalidUnitCost)
		} else {
			rec.UnitCost = cost
			rec.HasUnitCost = true
			coerced = coerced || c
		}
	}

	// A source-supplied sales amount is never authoritative; keep it only
	// for conflict detection during derivation.
	if text, ok := cell(raw, ColSalesAmount); ok {
		if amount, c, err := parseDecimal(text); err == nil {
			rec.RawSalesAmount = amount
			rec.HasRawSalesAmount = true
			coerced = coerced || c
		}
	}

	if len(reasons) > 0 {
		return RowResult{Outcome: Reject, Reasons: reasons}
	}

	// Final invariant gate over the typed record.
	if err := v.validate.Struct(rec); err != nil {
		return RowResult{Outcome: Reject, Reasons: []string{ReasonInvalidRecord}}
	}

	if coerced {
		return RowResult{Outcome: Coerce, Record: rec}
	}
	return RowResult{Outcome: Accept, Record: rec}
}

// stringField extracts a required non-empty string column.
func (v *Validator) stringField(raw RawRecord, col string, coerced *bool, addReason func(string)) string {
	text, ok := cell(raw, col)
	if !ok {
		addReason(ReasonMissingField)
		return ""
	}
	if text != raw[col] {
		*coerced = true
	}
	return text
}

// cell returns the trimmed cell text and whether a non-empty value exists.
func cell(raw RawRecord, col string) (string, bool) {
	text := strings.TrimSpace(raw[col])
	return text, text != ""
}

// parseDate tries the canonical layout first, then the alternates.
func parseDate(text string) (time.Time, bool, error) {
	date, err := time.Parse(dateLayouts[0], text)
	if err == nil {
		return date, false, nil
	}
	for _, layout := range dateLayouts[1:] {
		if date, err = time.Parse(layout, text); err == nil {
			return date, true, nil
		}
	}
	return time.Time{}, false, err
}

// parseInt parses an integer cell, tolerating thousands separators and
// float renderings of whole numbers ("12.0"). Anything beyond a plain
// integer literal counts as a coercion.
func parseInt(text string) (int64, bool, error) {
	normalized := strings.ReplaceAll(text, ",", "")
	if n, err := strconv.ParseInt(normalized, 10, 64); err == nil {
		return n, normalized != text, nil
	}
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false, err
	}
	n := int64(f)
	if float64(n) != f {
		return 0, false, strconv.ErrSyntax
	}
	return n, true, nil
}

// parseDecimal parses a decimal cell, tolerating thousands separators and a
// leading currency marker.
func parseDecimal(text string) (decimal.Decimal, bool, error) {
	normalized := strings.ReplaceAll(text, ",", "")
	normalized = strings.TrimPrefix(normalized, "$")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false, err
	}
	return d, normalized != text, nil
}
