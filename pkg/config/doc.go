// Package config handles configuration management for packorder.
// Configuration is layered with koanf: embedded TOML defaults, then the
// user's config.toml (XDG config home or an explicit path), then
// PACKORDER_* environment variables.
package config
