// Package logging provides the slog-based logging stack for cardwatch.
//
// It exposes typed attribute helpers, standardized field-name constants, and
// logger construction from configuration. Two output formats are supported:
// a compact console format for interactive use and JSON for log shippers.
// Log output can fan out to stdout/stderr and a log file simultaneously.
package logging
