// Package grid models a tabular script export as an ordered sequence of
// optional text cells. Decoders exist for the CSV export format served by
// spreadsheet hosts and for local xlsx workbooks; both tolerate ragged rows.
package grid
