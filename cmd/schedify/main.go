package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/schedify/internal/cache"
	"github.com/a3tai/schedify/internal/config"
	"github.com/a3tai/schedify/internal/logging"
	"github.com/a3tai/schedify/internal/mcp"
	"github.com/a3tai/schedify/internal/pdf"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the process logger. In stdio mode stdout carries the
// MCP protocol, so logs go to stderr and only when debugging.
func setupLogging(cfg *config.Config, stderr io.Writer) (*logrus.Logger, error) {
	out := stderr
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		out = io.Discard
	}
	return logging.New(cfg.LogLevel, cfg.LogFormat, out)
}

// newService builds the extraction service and, when configured, its cache.
// The returned close function releases the cache.
func newService(cfg *config.Config, log logrus.FieldLogger) (*pdf.Service, func(), error) {
	log = logging.OrDiscard(log)
	svcCfg := pdf.ServiceConfig{
		MaxFileSize: cfg.MaxFileSize,
		Directory:   cfg.PDFDirectory,
		PageWorkers: cfg.PageWorkers,
		Logger:      log,
	}

	closeFn := func() {}
	if cfg.CacheEnabled() {
		c, err := cache.Open(cache.Options{
			Dir:    cfg.CacheDirectory,
			TTL:    cfg.CacheTTL,
			Logger: log,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open cache: %w", err)
		}
		svcCfg.Cache = c
		closeFn = func() {
			if err := c.Close(); err != nil {
				log.WithError(err).Warn("failed to close cache")
			}
		}
	}

	svc, err := pdf.NewService(svcCfg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

// runServerMode runs the server until it fails or a shutdown signal arrives
func runServerMode(ctx context.Context, cancel context.CancelFunc, server *mcp.Server, log logrus.FieldLogger) error {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signalCh)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.WithField("signal", sig.String()).Info("initiating graceful shutdown")
		cancel()
		if err := <-serverErrCh; err != nil {
			return fmt.Errorf("server shutdown with error: %w", err)
		}
	case err := <-serverErrCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info("server stopped")
	return nil
}

// runStdioMode serves until the parent process closes stdin
func runStdioMode(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx)
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if version != "dev" {
		cfg.Version = version
	}

	log, err := setupLogging(cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	log.WithField("config", cfg.String()).Debug("starting")

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("schedify exited")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	service, closeService, err := newService(cfg, log)
	if err != nil {
		return err
	}
	defer closeService()

	server, err := mcp.NewServer(cfg, service, log)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsServerMode() {
		return runServerMode(ctx, cancel, server, log)
	}
	return runStdioMode(ctx, server)
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "schedify\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
