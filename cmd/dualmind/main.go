package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a3tai/dualmind/internal/config"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger builds the process logger. Logs always go to stderr so stdout
// stays free for the MCP protocol and CLI reports. Stdio mode stays quiet
// below warn unless debug logging is requested.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsServerMode() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.DisableStacktrace = true
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	zapConfig.Level = level
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("mode", cfg.Mode)), nil
}

func main() {
	cfg, err := config.LoadFromFlags()
	if errors.Is(err, config.ErrVersionRequested) {
		printVersion(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting with configuration", zap.Stringer("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := run(ctx, cfg, logger, os.Stdout, os.Stderr); err != nil {
		logger.Error("dualmind exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// run wires the services for cfg and executes the configured mode
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdout, stderr io.Writer) error {
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.janitor.Run(ctx)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	switch cfg.Mode {
	case config.ModeCLI:
		return a.runCLI(ctx, stdout, stderr)
	case config.ModeWatch:
		return a.runWatch(ctx)
	default:
		return a.runMCP(ctx)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "DualMind\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
