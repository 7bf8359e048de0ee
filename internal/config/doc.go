// Package config loads and validates the converter configuration.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//	1. Default values (Default)
//	2. YAML file (radar.yaml, configs/radar.yaml, or an explicit path)
//	3. Environment variables prefixed with RADAR_
//	4. Command-line flags, applied by cmd/radar
//
// # Environment Variables
//
// Nested sections are joined with underscores:
//
//	RADAR_PIPELINE_INPUT_PATH=data/proposals.csv
//	RADAR_PIPELINE_OUTPUT_PATH=public/data/proposals.json
//	RADAR_COLUMNS_PARTY=Partido
//	RADAR_LOGGING_LEVEL=debug
//	RADAR_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/radar.prom
//
// # Path Management
//
// Relative paths resolve against pipeline.base_dir, which defaults to the
// working directory. Paths returns every resolved location in one place.
//
// # Validation
//
// Struct tags are checked with go-playground/validator. Failures are returned
// as a CONFIG application error naming the offending yaml keys.
package config
