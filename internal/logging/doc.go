// Package logging builds slog loggers for the CLI.
//
// Console output renders compact single-line records for interactive use;
// the json format emits structured records for log aggregation. Output can
// fan out to stderr and a file under the configured log directory.
package logging
