// Package exporter extracts single rows from validated datasets and renders
// them as CSV, JSON, an xlsx workbook or an in-memory ordered mapping.
//
// Every call re-reads the file; nothing is cached between calls.
package exporter
