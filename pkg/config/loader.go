package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/packorder/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of environment variables that override configuration
	EnvPrefix = "PACKORDER_"

	// ConfigRelPath is the user config file location relative to the XDG config home
	ConfigRelPath = "packorder/config.toml"
)

// UserConfigPath returns the default location of the user's config file
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, ConfigRelPath)
}

// LoadConfiguration loads defaults, then the config file at path (or the
// user config file when path is empty), then environment overrides.
func LoadConfiguration(path string) (*Config, error) {
	k, err := newKoanf(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RawConfiguration returns the merged configuration tree before decoding,
// with values as they were written (durations stay strings).
func RawConfiguration(path string) (map[string]interface{}, error) {
	k, err := newKoanf(path)
	if err != nil {
		return nil, err
	}
	return k.Raw(), nil
}

// Default returns the embedded defaults without reading files or environment
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		panic(fmt.Sprintf("embedded defaults do not decode: %v", err))
	}
	return &cfg
}

func newKoanf(path string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// 1. Load system defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Load the config file if it exists. An explicit path must exist.
	explicit := path != ""
	if !explicit {
		path = UserConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
	} else if explicit {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "config file not found").
			WithDetail("path", path)
	}

	// 3. Load env vars
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	return k, nil
}

// envKey maps PACKORDER_VALIDATION_MIN_FORMAT to validation.min_format.
// Only the first underscore separates the section from the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate checks the configuration for values the manager cannot work with
func (c *Config) Validate() error {
	v := c.Validation
	if !strings.HasPrefix(v.ArchiveExtension, ".") {
		return errors.Newf(errors.ErrConfigParse, "validation.archive_extension must start with a dot, got %q", v.ArchiveExtension)
	}
	if v.Manifest == "" {
		return errors.New(errors.ErrConfigParse, "validation.manifest must not be empty")
	}
	if v.MinFormat > v.MaxFormat {
		return errors.Newf(errors.ErrConfigParse, "validation.min_format (%d) is greater than validation.max_format (%d)", v.MinFormat, v.MaxFormat)
	}
	if c.Options.Key == "" {
		return errors.New(errors.ErrConfigParse, "options.key must not be empty")
	}
	if c.Scan.Workers < 1 {
		return errors.Newf(errors.ErrConfigParse, "scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	return nil
}
