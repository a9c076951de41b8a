// Package shared holds helpers used by more than one internal package.
//
// testutil provides a capturing slog handler and workbook fixtures so
// tests can assert on log output and feed small Concur, employee master
// and line item files to the insight generators without touching the
// real data directory.
package shared
