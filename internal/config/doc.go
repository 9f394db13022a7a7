// Package config loads, normalizes, and validates cardwatch configuration.
//
// Configuration lives in a TOML file (default ~/.config/cardwatch/config.toml,
// with a project-local cardwatch.toml fallback). Defaults are applied first,
// then file values, then environment overrides for secrets (CARDWATCH_FOLDER_ID,
// CARDWATCH_DRIVE_TOKEN). Validation failures are configuration errors and
// abort startup; every other failure class in the system is recoverable.
package config
