// Package config loads the settings of the synchronization service.
//
// Sources are layered; a later source overrides the non-zero fields of an
// earlier one:
//  0. built-in defaults (API base, driver, timeouts, schedule, log level)
//  1. environment variables (REMOTE_*, STORAGE_DB_*, SERVER_*, WEBHOOK_*,
//     WORKERS_*, LOG_LEVEL, CONFIG)
//  2. command-line flags
//  3. the JSON file named by CONFIG or -c
//
// The merged result is validated before [GetStructuredConfig] returns it.
package config
