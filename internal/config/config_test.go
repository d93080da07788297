package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.PDFDirectory = t.TempDir()
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeStdio {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.ServerName != "schedify" {
		t.Errorf("Expected default server name to be 'schedify', got '%s'", cfg.ServerName)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("Expected info/text logging, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.MaxFileSize != 20*1024*1024 {
		t.Errorf("Expected default max file size to be 20MB, got %d", cfg.MaxFileSize)
	}
	if cfg.PageWorkers != 4 {
		t.Errorf("Expected 4 page workers, got %d", cfg.PageWorkers)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected 30s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.CacheEnabled() {
		t.Error("Expected cache to be disabled by default")
	}

	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "server mode", mutate: func(c *Config) { c.Mode = ModeServer }},
		{name: "invalid mode", mutate: func(c *Config) { c.Mode = "daemon" }, wantErr: "mode must be"},
		{name: "port too low in server mode", mutate: func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, wantErr: "port must be"},
		{name: "port too high in server mode", mutate: func(c *Config) { c.Mode = ModeServer; c.Port = 70000 }, wantErr: "port must be"},
		{name: "port ignored in stdio mode", mutate: func(c *Config) { c.Port = 0 }},
		{name: "zero request timeout in server mode", mutate: func(c *Config) { c.Mode = ModeServer; c.RequestTimeout = 0 }, wantErr: "request timeout"},
		{name: "empty PDF directory", mutate: func(c *Config) { c.PDFDirectory = "" }, wantErr: "cannot be empty"},
		{name: "zero max file size", mutate: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "file size"},
		{name: "zero page workers", mutate: func(c *Config) { c.PageWorkers = 0 }, wantErr: "page workers"},
		{name: "cache without TTL", mutate: func(c *Config) { c.CacheDirectory = "/tmp/c"; c.CacheTTL = 0 }, wantErr: "cache TTL"},
		{name: "TTL ignored without cache", mutate: func(c *Config) { c.CacheTTL = 0 }},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "invalid log level"},
		{name: "invalid log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Config.Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Config.Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidate_CreatesPDFDirectory(t *testing.T) {
	cfg := validConfig(t)
	cfg.PDFDirectory = filepath.Join(t.TempDir(), "term", "cor")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Config.Validate() error = %v", err)
	}
	if info, err := os.Stat(cfg.PDFDirectory); err != nil || !info.IsDir() {
		t.Errorf("PDF directory was not created: %v", err)
	}
}

func TestConfigExpandPaths(t *testing.T) {
	cfg := &Config{PDFDirectory: "cor", CacheDirectory: "cache"}
	cfg.expandPaths()

	if !filepath.IsAbs(cfg.PDFDirectory) || !filepath.IsAbs(cfg.CacheDirectory) {
		t.Errorf("paths not absolute: %s, %s", cfg.PDFDirectory, cfg.CacheDirectory)
	}
	if want := filepath.Join(cfg.PDFDirectory, "exports"); cfg.ExportDirectory != want {
		t.Errorf("ExportDirectory = %s, want %s", cfg.ExportDirectory, want)
	}

	cfg = &Config{PDFDirectory: "/srv/cor", ExportDirectory: "/srv/out"}
	cfg.expandPaths()
	if cfg.ExportDirectory != "/srv/out" {
		t.Errorf("explicit ExportDirectory overwritten: %s", cfg.ExportDirectory)
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "192.168.1.1", Port: 9090}
	if got := cfg.Address(); got != "192.168.1.1:9090" {
		t.Errorf("Config.Address() = %v, want 192.168.1.1:9090", got)
	}
}

func TestConfigModes(t *testing.T) {
	cfg := &Config{Mode: ModeServer, LogLevel: "debug", CacheDirectory: "/tmp/c"}
	if !cfg.IsServerMode() || cfg.IsStdioMode() {
		t.Error("expected server mode")
	}
	if !cfg.IsDebug() {
		t.Error("expected debug")
	}
	if !cfg.CacheEnabled() {
		t.Error("expected cache enabled")
	}

	cfg = &Config{Mode: ModeStdio, LogLevel: "info"}
	if cfg.IsServerMode() || !cfg.IsStdioMode() || cfg.IsDebug() {
		t.Error("expected quiet stdio mode")
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		Mode:           "server",
		Host:           "localhost",
		Port:           8080,
		PDFDirectory:   "/home/registrar/cor",
		CacheDirectory: "/var/cache/schedify",
		CacheTTL:       time.Hour,
		LogLevel:       "debug",
		MaxFileSize:    1024,
	}

	result := cfg.String()
	for _, substr := range []string{
		"Mode: server",
		"Host: localhost",
		"Port: 8080",
		"PDFDirectory: /home/registrar/cor",
		"CacheDirectory: /var/cache/schedify",
		"CacheTTL: 1h0m0s",
		"LogLevel: debug",
		"MaxFileSize: 1024",
	} {
		if !strings.Contains(result, substr) {
			t.Errorf("Config.String() missing %q\nGot: %s", substr, result)
		}
	}
}
