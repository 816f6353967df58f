// Package config holds the process settings for toolforge.
package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by toolforge.
const EnvPrefix = "TOOLFORGE"

// Settings contains the process configuration.
type Settings struct {
	ListenAddr        string        `mapstructure:"listen_addr"`
	ConfigFile        string        `mapstructure:"config_file"`
	ProjectMarker     string        `mapstructure:"project_marker"`
	BuildOutputMarker string        `mapstructure:"build_output_marker"`
	StartDir          string        `mapstructure:"start_dir"`
	BaseURL           string        `mapstructure:"base_url"`
	LogLevel          string        `mapstructure:"log_level"`
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		ListenAddr:        ":8080",
		ConfigFile:        "tools-config.txt",
		ProjectMarker:     "go.mod",
		BuildOutputMarker: ".toolforge/output",
		LogLevel:          "info",
	}
}

// flag name -> settings key
var flagKeys = map[string]string{
	"listen-addr":         "listen_addr",
	"config-file":         "config_file",
	"project-marker":      "project_marker",
	"build-output-marker": "build_output_marker",
	"start-dir":           "start_dir",
	"base-url":            "base_url",
	"log-level":           "log_level",
	"http-timeout":        "http_timeout",
}

// AddFlags registers the settings flags on flags.
func AddFlags(flags *pflag.FlagSet) {
	d := DefaultSettings()
	flags.String("listen-addr", d.ListenAddr, "Address the HTTP server listens on")
	flags.String("config-file", d.ConfigFile, "Name of the tool configuration file at the project root")
	flags.String("project-marker", d.ProjectMarker, "File that marks the project root")
	flags.String("build-output-marker", d.BuildOutputMarker, "Path segment that marks a build output directory")
	flags.String("start-dir", d.StartDir, "Directory the project root search starts from (default: working directory)")
	flags.String("base-url", d.BaseURL, "Base URL for tools declared with relative URLs")
	flags.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	flags.Duration("http-timeout", d.HTTPTimeout, "Timeout for outbound tool requests (0 uses the transport default)")
	flags.String("settings", "", "Optional settings file (yaml, json or toml)")
}

// New returns a viper instance with defaults, environment binding and the
// given flags wired in.
func New(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("config_file", d.ConfigFile)
	v.SetDefault("project_marker", d.ProjectMarker)
	v.SetDefault("build_output_marker", d.BuildOutputMarker)
	v.SetDefault("start_dir", d.StartDir)
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("http_timeout", d.HTTPTimeout)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags == nil {
		return v, nil
	}
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	if f := flags.Lookup("settings"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}
	return v, nil
}

// Load decodes and validates settings from v. An empty StartDir is replaced
// by the working directory.
func Load(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if s.StartDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Settings{}, fmt.Errorf("failed to get working directory: %w", err)
		}
		s.StartDir = wd
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for values that cannot work.
func (s Settings) Validate() error {
	if s.ConfigFile == "" {
		return fmt.Errorf("config_file must not be empty")
	}
	if s.ProjectMarker == "" {
		return fmt.Errorf("project_marker must not be empty")
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", s.LogLevel, err)
	}
	if s.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative")
	}
	if s.BaseURL != "" {
		u, err := url.Parse(s.BaseURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("base_url must be an absolute URL, got %q", s.BaseURL)
		}
	}
	return nil
}

// Level returns the zerolog level, falling back to info.
func (s Settings) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || s.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return level
}

// HTTPClient returns the client tools use for outbound requests.
func (s Settings) HTTPClient() *http.Client {
	if s.HTTPTimeout == 0 {
		return http.DefaultClient
	}
	return &http.Client{Timeout: s.HTTPTimeout}
}

// Base returns the parsed BaseURL, or nil when unset.
func (s Settings) Base() *url.URL {
	if s.BaseURL == "" {
		return nil
	}
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil
	}
	return u
}
