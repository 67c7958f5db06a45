// Package config loads, normalizes, and validates trafficctl configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TRAFFICCTL_API_URL. The Config type centralizes every knob the CLI needs,
// so the backend URL, local state directories, and polling cadence are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
