// Package exporter writes the sweep result tables to delimited text
// files, using the same field delimiter and decimal separator
// convention as the input datasets.
package exporter
