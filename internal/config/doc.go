// Package config loads, normalizes, and validates ytharvest configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// YTHARVEST_COOKIE_FILE. The Config type centralizes every knob the batch
// driver needs: the input sheet, output directory, cookie bundle, cooldown
// bounds, subtitle language allow-list, required column name, and the gate
// policy applied to each video.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
