// Package exporter provides download surfaces for the cleaned trade table.
//
// Two formats are supported: a semicolon-delimited CSV mirroring the cleaned
// columns, and an Excel workbook with one sheet of trades and one sheet of
// per-instrument aggregates.
package exporter
