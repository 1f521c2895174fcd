// Package features validates requested feature lists against raw
// datasets and prepares training-ready data.
//
// Preparation restricts a dataset to rows with complete, finite values
// across the usable features and the price column, optionally
// standardizes those features, and labels every row with the binary
// next-step price direction of its instrument.
package features
