// Package config loads the REPL's TOML configuration and watches it for
// live reload.
//
// Missing files fall back to built-in defaults and out-of-range values
// are clamped, so a running REPL always has a usable configuration.
// Buffer-sizing fields (line capacity, history depth) only take effect
// at editor construction; prompt and log level apply between lines.
package config
