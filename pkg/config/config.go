package config

import (
	"time"
)

// Config is the effective packorder configuration
type Config struct {
	Game       Game       `koanf:"game" toml:"game"`
	Packs      Packs      `koanf:"packs" toml:"packs"`
	Options    Options    `koanf:"options" toml:"options"`
	Codec      Codec      `koanf:"codec" toml:"codec"`
	Validation Validation `koanf:"validation" toml:"validation"`
	Scan       Scan       `koanf:"scan" toml:"scan"`
	Watch      Watch      `koanf:"watch" toml:"watch"`
}

// Game locates the game installation
type Game struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// Packs locates the resource packs directory
type Packs struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// Options describes the game's options document and the keys we own in it
type Options struct {
	File            string `koanf:"file" toml:"file"`
	Key             string `koanf:"key" toml:"key"`
	IncompatibleKey string `koanf:"incompatible_key" toml:"incompatible_key"`
}

// Codec holds the persisted identity format
type Codec struct {
	// Prefix is prepended to every identity written to the options document
	Prefix string `koanf:"prefix" toml:"prefix"`
}

// Validation holds the rules a candidate must pass to be admitted as a pack
type Validation struct {
	ArchiveExtension string `koanf:"archive_extension" toml:"archive_extension"`
	Manifest         string `koanf:"manifest" toml:"manifest"`
	Icon             string `koanf:"icon" toml:"icon"`
	MinFormat        int    `koanf:"min_format" toml:"min_format"`
	MaxFormat        int    `koanf:"max_format" toml:"max_format"`
}

// Scan tunes directory enumeration
type Scan struct {
	// Ignore holds doublestar patterns matched against entry names
	Ignore  []string `koanf:"ignore" toml:"ignore"`
	Workers int      `koanf:"workers" toml:"workers"`
}

// Watch tunes the packs directory watcher
type Watch struct {
	Debounce time.Duration `koanf:"debounce" toml:"debounce"`
}
