package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables that override file settings,
// e.g. SPOILER_LOG_LEVEL or SPOILER_SERVER_ADDR.
const EnvPrefix = "SPOILER_"

// Config is the application configuration.
type Config struct {
	Log     Log     `mapstructure:"log" yaml:"log" json:"log" envPrefix:"LOG_"`
	Server  Server  `mapstructure:"server" yaml:"server" json:"server" envPrefix:"SERVER_"`
	Metrics Metrics `mapstructure:"metrics" yaml:"metrics" json:"metrics" envPrefix:"METRICS_"`
	Editor  Editor  `mapstructure:"editor" yaml:"editor" json:"editor" envPrefix:"EDITOR_"`
}

// Log configures the application logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level" env:"LEVEL"`
	Format string `mapstructure:"format" yaml:"format" json:"format" env:"FORMAT"`
}

// Server configures the HTTP preview server.
type Server struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr" env:"ADDR"`
}

// Metrics toggles the prometheus collectors and the /metrics endpoint.
type Metrics struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled" env:"ENABLED"`
}

// Editor selects the plugins and the widget label.
type Editor struct {
	Plugins []string `mapstructure:"plugins" yaml:"plugins" json:"plugins" env:"PLUGINS" envSeparator:","`
	Label   string   `mapstructure:"label" yaml:"label" json:"label" env:"LABEL"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:     Log{Level: "info", Format: "text"},
		Server:  Server{Addr: ":8080"},
		Metrics: Metrics{Enabled: true},
		Editor:  Editor{Label: "Spoiler widget"},
	}
}

// Load reads a YAML (or JSON) file on top of Default, then applies environment
// overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	raw := make(map[string]any)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		// YAML is a superset of JSON, one decoder serves both.
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	cfg := Default()
	if err := Decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv overrides cfg with the SPOILER_ variables that are set.
func ParseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Decode merges raw into cfg. Unknown keys are an error and scalar values are
// converted, so a quoted "false" becomes a bool.
func Decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
