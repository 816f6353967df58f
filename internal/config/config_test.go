package config

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("Expected ListenAddr to be ':8080', got %s", cfg.ListenAddr)
	}

	if cfg.ConfigFile != "tools-config.txt" {
		t.Errorf("Expected ConfigFile to be 'tools-config.txt', got %s", cfg.ConfigFile)
	}

	if cfg.ProjectMarker != "go.mod" {
		t.Errorf("Expected ProjectMarker to be 'go.mod', got %s", cfg.ProjectMarker)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be 'info', got %s", cfg.LogLevel)
	}

	if cfg.HTTPTimeout != 0 {
		t.Errorf("Expected no HTTP timeout by default, got %v", cfg.HTTPTimeout)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default settings to validate: %v", err)
	}
}

func TestLoad_FlagsOverrideDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flags)
	if err := flags.Parse([]string{"--listen-addr=:9090", "--http-timeout=5s", "--start-dir=/tmp"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	v, err := New(flags)
	if err != nil {
		t.Fatalf("Failed to create viper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("Expected ListenAddr ':9090', got %s", cfg.ListenAddr)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.HTTPTimeout)
	}
	if cfg.StartDir != "/tmp" {
		t.Errorf("Expected start dir /tmp, got %s", cfg.StartDir)
	}
	if cfg.ConfigFile != "tools-config.txt" {
		t.Errorf("Expected default config file, got %s", cfg.ConfigFile)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TOOLFORGE_CONFIG_FILE", "apis.txt")
	t.Setenv("TOOLFORGE_LOG_LEVEL", "debug")

	v, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create viper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if cfg.ConfigFile != "apis.txt" {
		t.Errorf("Expected config file from env, got %s", cfg.ConfigFile)
	}
	if cfg.StartDir == "" {
		t.Error("Expected start dir to default to the working directory")
	}
}

func TestLoad_SettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolforge.yaml")
	if err := os.WriteFile(path, []byte("base_url: https://api.example.com\nlog_level: warn\n"), 0o644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flags)
	if err := flags.Parse([]string{"--settings=" + path}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	v, err := New(flags)
	if err != nil {
		t.Fatalf("Failed to create viper: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if cfg.Base() == nil || cfg.Base().Host != "api.example.com" {
		t.Errorf("Unexpected base url: %v", cfg.Base())
	}
	if cfg.Level().String() != "warn" {
		t.Errorf("Expected warn level, got %s", cfg.Level())
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Settings){
		"empty config file": func(s *Settings) { s.ConfigFile = "" },
		"empty marker":      func(s *Settings) { s.ProjectMarker = "" },
		"bad level":         func(s *Settings) { s.LogLevel = "loud" },
		"negative timeout":  func(s *Settings) { s.HTTPTimeout = -time.Second },
		"relative base url": func(s *Settings) { s.BaseURL = "/api" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s := DefaultSettings()
			mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestHTTPClient(t *testing.T) {
	s := DefaultSettings()
	if s.HTTPClient() != http.DefaultClient {
		t.Error("Expected default client without a timeout")
	}

	s.HTTPTimeout = time.Second
	if s.HTTPClient().Timeout != time.Second {
		t.Error("Expected client with configured timeout")
	}
}
