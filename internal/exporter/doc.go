// Package exporter writes one run's results to disk: an Excel workbook with
// the cleaned data, the four analysis tables and a summary sheet, falling
// back to a set of CSV files plus a plain-text summary when the workbook
// cannot be written. Money is formatted to two decimals here and nowhere
// upstream.
package exporter
