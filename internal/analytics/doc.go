// Package analytics serves the dashboard view over uploaded PJPA37, PJPA38
// and PJPA39 result workbooks: column canonicalization, filtering, table
// queries, KPIs and chart series.
package analytics
