package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Default values
	DefaultPort           = 8080
	DefaultHost           = "127.0.0.1"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultMaxFileSize    = 20 * 1024 * 1024 // 20MB
	DefaultCacheTTL       = 24 * time.Hour
	DefaultPageWorkers    = 4
	DefaultRequestTimeout = 30 * time.Second
	DefaultExportDirName  = "exports"

	// Directory permissions
	DefaultDirPerm = 0o750

	envPrefix = "SCHEDIFY"
)

// Config holds all configuration for the schedify server
type Config struct {
	// Server configuration
	Mode           string // "server" or "stdio"
	Host           string
	Port           int
	RequestTimeout time.Duration

	// Document configuration
	PDFDirectory    string
	ExportDirectory string
	MaxFileSize     int64 // Maximum PDF file size in bytes
	PageWorkers     int

	// Cache configuration; an empty directory turns the cache off
	CacheDirectory string
	CacheTTL       time.Duration

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:           ModeStdio,
		Host:           DefaultHost,
		Port:           DefaultPort,
		RequestTimeout: DefaultRequestTimeout,
		PDFDirectory:   currentDir,
		MaxFileSize:    DefaultMaxFileSize,
		PageWorkers:    DefaultPageWorkers,
		CacheTTL:       DefaultCacheTTL,
		Version:        "1.0.0",
		ServerName:     "schedify",
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// LoadFromFlags reads .env, environment variables and command line flags,
// in increasing order of precedence, and returns a validated configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	// a missing .env is the normal case
	_ = godotenv.Load()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// flag names double as viper keys
var flagNames = []string{
	"mode", "host", "port", "request-timeout",
	"dir", "export-dir", "max-file-size", "page-workers",
	"cache-dir", "cache-ttl",
	"log-level", "log-format",
}

// setupViperEnvironment maps SCHEDIFY_* variables onto the flag keys
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("request-timeout", cfg.RequestTimeout)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("export-dir", cfg.ExportDirectory)
	viper.SetDefault("max-file-size", cfg.MaxFileSize)
	viper.SetDefault("page-workers", cfg.PageWorkers)
	viper.SetDefault("cache-dir", cfg.CacheDirectory)
	viper.SetDefault("cache-ttl", cfg.CacheTTL)
	viper.SetDefault("log-level", cfg.LogLevel)
	viper.SetDefault("log-format", cfg.LogFormat)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Server mode: 'stdio' for MCP standard I/O, 'server' for HTTP server")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.Duration("request-timeout", cfg.RequestTimeout, "Per-request processing timeout (server mode only)")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing registration PDFs")
	pflag.String("export-dir", cfg.ExportDirectory, "Directory for XLSX exports (default <dir>/exports)")
	pflag.Int64("max-file-size", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.Int("page-workers", cfg.PageWorkers, "Concurrent page extraction workers")
	pflag.String("cache-dir", cfg.CacheDirectory, "Badger directory for parsed schedules (empty disables the cache)")
	pflag.Duration("cache-ttl", cfg.CacheTTL, "How long cached schedules are kept")
	pflag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("log-format", cfg.LogFormat, "Log format (text, json)")
}

func bindFlagsToViper() {
	for _, name := range flagNames {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nschedify - extracts class schedules from registration PDFs over MCP and HTTP\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                          "+
			"# stdio mode, current directory (default)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/srv/cor                           "+
			"# stdio mode with custom directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=server --cache-dir=/var/cache/sch # server mode with cache\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (also read from .env):\n")
		for _, name := range flagNames {
			fmt.Fprintf(os.Stderr, "  %s_%s\n", envPrefix, strings.ToUpper(strings.ReplaceAll(name, "-", "_")))
		}
	}
}

func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.RequestTimeout = viper.GetDuration("request-timeout")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.ExportDirectory = viper.GetString("export-dir")
	cfg.MaxFileSize = viper.GetInt64("max-file-size")
	cfg.PageWorkers = viper.GetInt("page-workers")
	cfg.CacheDirectory = viper.GetString("cache-dir")
	cfg.CacheTTL = viper.GetDuration("cache-ttl")
	cfg.LogLevel = strings.ToLower(viper.GetString("log-level"))
	cfg.LogFormat = strings.ToLower(viper.GetString("log-format"))
}

// expandPaths makes directories absolute and fills in the export directory
func (c *Config) expandPaths() {
	for _, p := range []*string{&c.PDFDirectory, &c.ExportDirectory, &c.CacheDirectory} {
		if *p == "" {
			continue
		}
		if abs, err := filepath.Abs(*p); err == nil {
			*p = abs
		}
	}
	if c.ExportDirectory == "" && c.PDFDirectory != "" {
		c.ExportDirectory = filepath.Join(c.PDFDirectory, DefaultExportDirName)
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// port only matters in server mode
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}
	if c.Mode == ModeServer && c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// create the PDF directory if it does not exist yet
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.PageWorkers < 1 {
		return errors.New("page workers must be at least 1")
	}
	if c.CacheEnabled() && c.CacheTTL <= 0 {
		return errors.New("cache TTL must be positive when the cache is enabled")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// CacheEnabled reports whether parsed schedules are persisted
func (c *Config) CacheEnabled() bool {
	return c.CacheDirectory != ""
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, PDFDirectory: %s, ExportDirectory: %s, "+
		"CacheDirectory: %s, CacheTTL: %s, PageWorkers: %d, LogLevel: %s, LogFormat: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.PDFDirectory, c.ExportDirectory,
		c.CacheDirectory, c.CacheTTL, c.PageWorkers, c.LogLevel, c.LogFormat, c.MaxFileSize)
}

// IsServerMode returns true if the server is running in HTTP server mode
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
