// Package config loads vix settings.
//
// Settings come from three places, later ones overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, usually vix.toml
//  3. Environment variables prefixed with VIX_
//
// A missing file is not an error. Unknown keys are rejected so that a
// misspelled setting is reported instead of silently ignored.
//
// Example file:
//
//	[editor]
//	line_ending = "auto"
//	tab_width = 4
//	encoding = "utf-8"
//
//	[logging]
//	level = "info"
//
//	[script]
//	timeout = "5s"
package config
