// Package dataset loads raw per-instrument historical datasets from
// delimited text files or Excel workbooks.
//
// A dataset file holds one row per (instrument, date) with a date column,
// an instrument symbol column, an adjusted close price column and any
// number of numeric feature columns. Dates in mixed formats are coerced;
// values that cannot be parsed are recorded as missing rather than
// failing the file.
package dataset
