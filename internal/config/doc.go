// Package config loads, normalizes, and validates Envoi configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// AWS_ACCOUNT_ID or ROLE_ARN. The environment is consulted exactly once, inside
// Load, so commands and services receive a fully resolved Config and never
// read process state on their own.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
