// Package cleaning turns raw tabular input into a validated, deduplicated,
// date-ordered dataset of sales records with derived fields computed.
//
// Row-level failures are recovered locally: the row is dropped and the
// reason counted in the cleaning report. Only two conditions are fatal to a
// run: a structurally wrong input shape (schema mismatch) and zero rows
// surviving cleaning (empty dataset).
package cleaning
