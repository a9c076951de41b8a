// Package app wires the JK Insights service together and runs it.
//
// NewApplication loads configuration, resolves and creates the working
// directories, and builds every component in dependency order:
//
//  1. logging and OpenTelemetry (Prometheus-backed metrics, optional tracing)
//  2. the websocket hub that carries job and data-update events
//  3. the insight runner and the job queue in front of it
//  4. the data directory watcher, the user store and the analytics workspace
//  5. the services and the chi router with its middleware stack
//
// Run starts the HTTP listener and the background components and blocks
// until SIGINT or SIGTERM, then shuts everything down within the configured
// shutdown timeout. Errors are returned to the caller; the package never
// exits the process.
package app
