// Package exporter renders the snapshot report rows to their delivery
// formats: a CSV for downstream tooling, an Excel workbook, and a paginated
// PDF table. Rendering concerns live here and only here — dates become
// DD/MM/YYYY strings and amounts are rounded to two decimals at this
// boundary, never inside the computation core.
package exporter
