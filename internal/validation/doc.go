// Package validation checks request bodies, query parameters and the
// directories the offline runner reads from and writes to.
package validation
