// Package config loads the service configuration.
//
// Values are resolved in three layers, lowest priority first:
//
//  1. Default() values
//  2. a YAML file (JK_CONFIG, or config.yaml / configs/config.yaml when present)
//  3. environment variables with the JK_ prefix
//
// Environment variables follow the struct layout, for example:
//
//	JK_SERVER_PORT=8080
//	JK_PATHS_DATA_DIR=/srv/jk/data
//	JK_INSIGHTS_WORKERS=4
//	JK_LOGGING_LEVEL=debug
//
// The merged result is validated with go-playground/validator before use.
package config
