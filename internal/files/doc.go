// Package files manages the master data directory and the generated output
// directory.
//
// Manager stores uploaded master files under their canonical names, merging
// zip bundles into a single workbook. Discovery looks up generated reports.
// Watcher follows the data directory and announces replaced master files.
package files
