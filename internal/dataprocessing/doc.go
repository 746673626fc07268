// Package dataprocessing cleans the B3 trade export into the in-memory
// dataset the dashboard serves from.
//
// The pipeline runs once at startup, in a fixed order: project away unused
// columns, drop derivative instrument codes, validate and normalize close
// times, reformat trade dates for display, parse decimal-comma prices, then
// compute the per-instrument aggregates (mean price, trade count, sort order).
// Time validation failures exclude individual rows; an unparseable price is
// fatal for the whole load.
package dataprocessing
